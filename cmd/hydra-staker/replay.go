// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/hydrachain/staker/genesis"
)

// Replay applies the steps of script in order and commits the state after each one.
// It stops at the first failing step, leaving the earlier steps committed.
func Replay(c *genesis.Components, script *Script, showProgress bool) error {
	bar := pb.New(len(script.Steps)).
		SetMaxWidth(90)
	bar.NotPrint = !showProgress
	bar.Start()
	defer bar.Finish()

	for i := range script.Steps {
		step := &script.Steps[i]
		op, ok := operations[step.Op]
		if !ok {
			return errors.Errorf("step %d: unknown op %q", i, step.Op)
		}

		// registry ops write the state directly
		rev := c.State.NewCheckpoint()
		if err := op(c, step); err != nil {
			c.State.RevertTo(rev)
			logger.Info("replay stopped", "step", i, "op", step.Op, "err", err)
			return errors.Wrapf(err, "step %d (%s)", i, step.Op)
		}
		if err := c.State.Commit(); err != nil {
			return errors.Wrapf(err, "commit step %d", i)
		}
		logger.Debug("step applied", "step", i, "op", step.Op)
		bar.Increment()
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/hydrachain/staker/api"
	"github.com/hydrachain/staker/eventdb"
	"github.com/hydrachain/staker/genesis"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/lvldb"
	"github.com/hydrachain/staker/metrics"
	"github.com/hydrachain/staker/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	commonFlags := []cli.Flag{
		dataDirFlag,
		configFlag,
		verbosityFlag,
		logFormatFlag,
		persistFlag,
		cacheFlag,
	}
	serveFlags := append([]cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		enableMetricsFlag,
	}, commonFlags...)

	app := cli.App{
		Version:   fullVersion(),
		Name:      "hydra-staker",
		Usage:     "Staking, delegation and reward accounting service",
		Copyright: "2025 The VeChainThor developers",
		Flags:     serveFlags,
		Action:    serveAction,
		Commands: []cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the staker read API",
				Flags:  serveFlags,
				Action: serveAction,
			},
			{
				Name:      "replay",
				Usage:     "apply a scripted list of operations",
				ArgsUsage: "<script.yaml>",
				Flags:     append([]cli.Flag{noProgressFlag}, commonFlags...),
				Action:    replayAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabases opens the state and event databases on disk when persisting, in memory otherwise.
func openDatabases(ctx *cli.Context) (*lvldb.LevelDB, *eventdb.EventDB, string, func()) {
	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir string
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
		mainDB = openMainDB(ctx, dataDir)
		eventDB = openEventDB(dataDir)
	} else {
		dataDir = "Memory"
		mainDB = openMemMainDB()
		eventDB = openMemEventDB()
	}
	return mainDB, eventDB, dataDir, func() {
		logger.Info("closing event database...")
		eventDB.Close()
		logger.Info("closing main database...")
		mainDB.Close()
	}
}

// buildStaker checks the databases belong to gen and seeds them on first start.
func buildStaker(mainDB *lvldb.LevelDB, eventDB *eventdb.EventDB, gen *genesis.Genesis) (*genesis.Components, error) {
	if err := genesis.Guard(mainDB, gen); err != nil {
		return nil, err
	}
	c, err := genesis.Build(state.New(mainDB), gen, eventdb.NewSink(eventDB))
	if err != nil {
		return nil, errors.Wrap(err, "build staker")
	}
	return c, nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	gen := loadGenesis(ctx)

	mainDB, eventDB, dataDir, closeDBs := openDatabases(ctx)
	defer closeDBs()

	c, err := buildStaker(mainDB, eventDB, gen)
	if err != nil {
		return err
	}

	handler := api.New(c.Staker, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
	})

	lastEpoch, err := c.Staker.LastEpoch()
	if err != nil {
		return err
	}
	printStartupMessage(gen, dataDir, ctx.String(apiAddrFlag.Name), lastEpoch)

	return runAPIServer(handleExitSignal(), ctx.String(apiAddrFlag.Name), handler)
}

func replayAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("replay requires exactly one script path")
	}
	script, err := LoadScript(ctx.Args().First())
	if err != nil {
		return err
	}
	gen := loadGenesis(ctx)

	mainDB, eventDB, _, closeDBs := openDatabases(ctx)
	defer closeDBs()

	c, err := buildStaker(mainDB, eventDB, gen)
	if err != nil {
		return err
	}

	showProgress := !ctx.Bool(noProgressFlag.Name) && isatty.IsTerminal(os.Stdout.Fd())
	if err := Replay(c, script, showProgress); err != nil {
		return err
	}

	lastEpoch, err := c.Staker.LastEpoch()
	if err != nil {
		return err
	}
	fmt.Printf("replayed %d steps, last epoch %d\n", len(script.Steps), lastEpoch)
	return nil
}

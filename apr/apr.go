// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apr

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var logger = log.WithContext("pkg", "apr")

var (
	slotGuard  = hydra.BytesToBytes32([]byte(("apr-guard")))
	slotPrices = hydra.BytesToBytes32([]byte(("apr-price-per-day")))
)

const (
	rsiPeriod  = 14
	fastPeriod = 7
	slowPeriod = 30
)

// Params is a snapshot of the global APR parameters.
type Params struct {
	Base  uint64
	Macro uint64
	RSI   uint64
	Guard bool
}

// PricePoint is the price recorded for a day.
type PricePoint struct {
	Day   uint64
	Price *big.Int
}

// Service computes APR caps and keeps the tunable APR parameters.
type Service struct {
	base   *slots.Param
	macro  *slots.Param
	rsi    *slots.Param
	guard  *slots.Raw[bool]
	prices *slots.List[*PricePoint]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		base:   slots.NewParam(sctx, "apr-base", hydra.InitialBaseAPR),
		macro:  slots.NewParam(sctx, "apr-macro", hydra.InitialMacroFactor),
		rsi:    slots.NewParam(sctx, "apr-rsi", 0),
		guard:  slots.NewRaw[bool](sctx, slotGuard),
		prices: slots.NewList[*PricePoint](sctx, slotPrices),
	}
}

// Params returns the current parameters.
func (s *Service) Params() (*Params, error) {
	base, err := s.base.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get base")
	}
	macro, err := s.macro.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get macro")
	}
	rsi, err := s.rsi.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rsi")
	}
	guard, err := s.guard.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get guard")
	}
	return &Params{Base: base, Macro: macro, RSI: rsi, Guard: guard}, nil
}

// MaxAPR returns the cap as a fraction:
// (base + bonus(52 weeks)) * macro * MAX_RSI / DENOMINATOR^3.
func (s *Service) MaxAPR() (nominator, denominator *big.Int, err error) {
	p, err := s.Params()
	if err != nil {
		return nil, nil, err
	}
	nominator = new(big.Int).SetUint64(p.Base + MaxVestingBonus())
	nominator.Mul(nominator, new(big.Int).SetUint64(p.Macro))
	nominator.Mul(nominator, big.NewInt(hydra.MaxRSIBonus))

	denominator = new(big.Int).Exp(hydra.BigDenominator, big.NewInt(3), nil)
	return nominator, denominator, nil
}

// ApplyMaxReward scales reward by the max APR.
func (s *Service) ApplyMaxReward(reward *big.Int) (*big.Int, error) {
	nom, den, err := s.MaxAPR()
	if err != nil {
		return nil, err
	}
	r := new(big.Int).Mul(reward, nom)
	return r.Quo(r, den), nil
}

// EpochMaxReward is the most that can be issued for totalStaked in a single epoch.
func (s *Service) EpochMaxReward(totalStaked *big.Int) (*big.Int, error) {
	r, err := s.ApplyMaxReward(totalStaked)
	if err != nil {
		return nil, err
	}
	return r.Quo(r, big.NewInt(hydra.EpochsYear)), nil
}

// ApplyRate converts a raw reward into the payable part for the given snapshot of
// base, vesting bonus and rsi bonus. An rsi of zero counts as no bonus.
// Only the snapshot is read, so later parameter changes leave the result alone.
// The result never exceeds raw.
func ApplyRate(raw *big.Int, base, vestBonus, rsi uint64) *big.Int {
	if raw.Sign() <= 0 {
		return new(big.Int)
	}
	if rsi == 0 {
		rsi = hydra.Denominator
	}

	payable := new(big.Int).Mul(raw, new(big.Int).SetUint64(base+vestBonus))
	payable.Mul(payable, new(big.Int).SetUint64(rsi))

	den := new(big.Int).SetUint64(base + MaxVestingBonus())
	den.Mul(den, big.NewInt(hydra.MaxRSIBonus))
	payable.Quo(payable, den)

	if payable.Cmp(raw) > 0 {
		return new(big.Int).Set(raw)
	}
	return payable
}

func (s *Service) SetBase(base uint64) error {
	return s.base.Set(base)
}

// SetMacro requires macro within [MinMacroFactor, MaxMacroFactor].
func (s *Service) SetMacro(macro uint64) error {
	if macro < hydra.MinMacroFactor || macro > hydra.MaxMacroFactor {
		return reverts.ErrInvalidMacro
	}
	return s.macro.Set(macro)
}

// SetRSI rejects values above MaxRSIBonus and stores values below MinRSIBonus as zero.
// It returns the stored value.
func (s *Service) SetRSI(rsi uint64) (uint64, error) {
	if rsi > hydra.MaxRSIBonus {
		return 0, reverts.ErrInvalidRSI
	}
	if rsi < hydra.MinRSIBonus {
		rsi = 0
	}
	return rsi, s.rsi.Set(rsi)
}

// GuardBonuses freezes automatic macro and rsi updates.
func (s *Service) GuardBonuses() error {
	guard, err := s.guard.Get()
	if err != nil {
		return err
	}
	if guard {
		return reverts.ErrGuardAlreadyEnabled
	}
	return s.guard.Set(true)
}

func (s *Service) DisableGuard() error {
	guard, err := s.guard.Get()
	if err != nil {
		return err
	}
	if !guard {
		return reverts.ErrGuardAlreadyDisabled
	}
	return s.guard.Set(false)
}

// Prices returns the whole daily price history.
func (s *Service) Prices() ([]*PricePoint, error) {
	return s.prices.All()
}

// UpdatePrice appends the price of day. Days must be consecutive.
// Unless guarded, the rsi and macro factor follow the new history.
func (s *Service) UpdatePrice(day uint64, price *big.Int) error {
	if price == nil || price.Sign() <= 0 {
		return reverts.ErrInvalidPrice
	}
	last, ok, err := s.prices.Last()
	if err != nil {
		return errors.Wrap(err, "failed to get last price")
	}
	if ok && day != last.Day+1 {
		return reverts.ErrInvalidPrice
	}
	if err := s.prices.Push(&PricePoint{Day: day, Price: new(big.Int).Set(price)}); err != nil {
		return errors.Wrap(err, "failed to append price")
	}

	guard, err := s.guard.Get()
	if err != nil || guard {
		return err
	}
	return s.adjustBonuses()
}

func (s *Service) adjustBonuses() error {
	n, err := s.prices.Len()
	if err != nil {
		return err
	}

	if n > rsiPeriod {
		window, err := s.tail(n, rsiPeriod+1)
		if err != nil {
			return err
		}
		index := relativeStrength(window)
		rsi := rsiBonusOf(index)
		if err := s.rsi.Set(rsi); err != nil {
			return err
		}
		logger.Debug("rsi updated", "index", index, "rsi", rsi)
	}

	if n >= slowPeriod {
		window, err := s.tail(n, slowPeriod)
		if err != nil {
			return err
		}
		fast := average(window[slowPeriod-fastPeriod:])
		slow := average(window)

		macro, err := s.macro.Get()
		if err != nil {
			return err
		}
		switch fast.Cmp(slow) {
		case 1:
			macro = min(macro+hydra.MacroStep, hydra.MaxMacroFactor)
		case -1:
			macro = max(macro, hydra.MinMacroFactor+hydra.MacroStep) - hydra.MacroStep
		}
		if err := s.macro.Set(macro); err != nil {
			return err
		}
		logger.Debug("macro updated", "fast", fast, "slow", slow, "macro", macro)
	}
	return nil
}

func (s *Service) tail(n, count uint64) ([]*big.Int, error) {
	window := make([]*big.Int, 0, count)
	for i := n - count; i < n; i++ {
		p, err := s.prices.Get(i)
		if err != nil {
			return nil, err
		}
		window = append(window, p.Price)
	}
	return window, nil
}

// relativeStrength returns 100 * gains / (gains + losses) over consecutive prices.
func relativeStrength(prices []*big.Int) uint64 {
	gain, loss := new(big.Int), new(big.Int)
	for i := 1; i < len(prices); i++ {
		d := new(big.Int).Sub(prices[i], prices[i-1])
		if d.Sign() > 0 {
			gain.Add(gain, d)
		} else {
			loss.Sub(loss, d)
		}
	}
	total := new(big.Int).Add(gain, loss)
	if total.Sign() == 0 {
		return 50
	}
	index := new(big.Int).Mul(gain, big.NewInt(100))
	return index.Quo(index, total).Uint64()
}

func average(prices []*big.Int) *big.Int {
	sum := new(big.Int)
	for _, p := range prices {
		sum.Add(sum, p)
	}
	return sum.Quo(sum, big.NewInt(int64(len(prices))))
}

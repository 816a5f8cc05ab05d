// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package compensation

import (
	"context"
	"sync"
	"time"

	"github.com/timecapsulellc/leadfive/core/commission"
	"github.com/timecapsulellc/leadfive/core/events"
	"github.com/timecapsulellc/leadfive/core/ledger"
	"github.com/timecapsulellc/leadfive/core/matrix"
	"github.com/timecapsulellc/leadfive/core/pools"
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/core/withdraw"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

// Broker sends events to the outside world.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks github.com/timecapsulellc/leadfive/core/compensation Broker
type Broker interface {
	Send(event events.Event)
	SendBatch(evts []events.Event)
}

// TimeService provides the engine's notion of now.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks github.com/timecapsulellc/leadfive/core/compensation TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine is the single entry point for every operation that moves money or
// reshapes the network. All operations run under one lock, validate fully
// before the first mutation, and publish their events only after the state
// changes are complete. An operation either happens entirely or not at all.
type Engine struct {
	log    *logging.Logger
	broker Broker
	tsvc   TimeService

	mu sync.Mutex

	store    *ledger.Store
	matrix   *matrix.Engine
	splitter *commission.Engine
	policy   *withdraw.Policy
	pools    *pools.Engine

	rootID        types.ParticipantID
	feeRecipient  string
	totalAdminFee *num.Uint
	paused        bool

	evtQueue []events.Event
}

const namedLogger = "compensation"

// NewEngine wires the sub-engines together and seeds the matrix root. The
// root participant carries the top catalog package so its earnings cap never
// interferes with spillover credits.
func NewEngine(
	log *logging.Logger,
	cfg Config,
	broker Broker,
	tsvc TimeService,
	poolsEngine *pools.Engine,
	packages []*types.Package,
) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	store := ledger.NewStore()
	splitter, err := commission.NewEngine(log, store, packages)
	if err != nil {
		return nil, err
	}
	policy, err := withdraw.NewPolicy(withdraw.DefaultTiers())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:           log,
		broker:        broker,
		tsvc:          tsvc,
		store:         store,
		matrix:        matrix.NewEngine(log, store),
		splitter:      splitter,
		policy:        policy,
		pools:         poolsEngine,
		rootID:        types.ParticipantID(cfg.RootID),
		feeRecipient:  cfg.FeeRecipient,
		totalAdminFee: num.UintZero(),
	}

	top := packages[0]
	for _, p := range packages {
		if p.Tier > top.Tier {
			top = p
		}
	}
	root := types.NewParticipant(e.rootID, "", top.Tier, top.Price, tsvc.GetTimeNow())
	if err := store.Create(root); err != nil {
		return nil, err
	}

	return e, nil
}

// Register admits a newcomer under a sponsor, paying for a catalog package.
// The full pass runs in one shot: ledger record, matrix placement, direct
// referral counting, then the commission split applied to the ancestors and
// the pools.
func (e *Engine) Register(ctx context.Context, newcomer, sponsor types.ParticipantID, tier uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return types.ErrPaused
	}
	if e.store.Has(newcomer) {
		return types.ErrAlreadyRegistered
	}
	sp, ok := e.store.Get(sponsor)
	if !ok || sp.Blacklisted {
		return types.ErrInvalidSponsor
	}
	pkg, ok := e.splitter.Package(tier)
	if !ok {
		return types.ErrUnknownPackage
	}

	// validation done, nothing below can fail
	p := types.NewParticipant(newcomer, sponsor, tier, pkg.Price, e.tsvc.GetTimeNow())
	if err := e.store.Create(p); err != nil {
		e.log.Panic("ledger create failed after validation", logging.Error(err))
	}
	sp.DirectReferralCount++
	sp.RecomputeRank()
	if _, _, err := e.matrix.Place(sponsor, p, pkg.Price); err != nil {
		e.log.Panic("matrix placement failed after validation", logging.Error(err))
	}
	e.queue(events.NewUserRegisteredEvent(ctx, p, pkg.Price))

	res, err := e.splitter.Split(&types.CommissionEvent{
		Payer:        newcomer,
		PackageLevel: tier,
		GrossAmount:  pkg.Price,
	})
	if err != nil {
		e.log.Panic("commission split failed after validation", logging.Error(err))
	}
	e.apply(ctx, res)
	e.flush()
	return nil
}

// Upgrade moves a participant to a higher catalog tier. The full new package
// price is paid, raising both the earnings cap and the matrix volume, and a
// fresh commission split runs on it.
func (e *Engine) Upgrade(ctx context.Context, id types.ParticipantID, tier uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return types.ErrPaused
	}
	p, ok := e.store.Get(id)
	if !ok {
		return types.ErrUnknownParticipant
	}
	if p.Blacklisted {
		return types.ErrBlacklisted
	}
	pkg, ok := e.splitter.Package(tier)
	if !ok {
		return types.ErrUnknownPackage
	}
	if tier <= p.PackageLevel {
		return types.ErrNotAnUpgrade
	}

	from := p.PackageLevel
	if err := e.store.AddInvestment(id, pkg.Price); err != nil {
		e.log.Panic("investment update failed after validation", logging.Error(err))
	}
	p.PackageLevel = tier
	if err := e.matrix.AddVolume(id, pkg.Price); err != nil {
		e.log.Panic("volume update failed after validation", logging.Error(err))
	}
	e.queue(events.NewPackageUpgradedEvent(ctx, id, from, tier, pkg.Price))

	res, err := e.splitter.Split(&types.CommissionEvent{
		Payer:        id,
		PackageLevel: tier,
		GrossAmount:  pkg.Price,
		IsUpgrade:    true,
	})
	if err != nil {
		e.log.Panic("commission split failed after validation", logging.Error(err))
	}
	e.apply(ctx, res)
	e.flush()
	return nil
}

// Withdraw debits the participant's withdrawable balance. Only the tiered
// rate share leaves the system; the rest is reinvested on the spot, feeding
// the participant's matrix volume and a full commission split.
func (e *Engine) Withdraw(ctx context.Context, id types.ParticipantID, amount *num.Uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return types.ErrPaused
	}
	p, ok := e.store.Get(id)
	if !ok {
		return types.ErrUnknownParticipant
	}
	if p.Blacklisted {
		return types.ErrBlacklisted
	}
	if amount == nil || amount.IsZero() {
		return types.ErrZeroAmount
	}
	if p.WithdrawableBalance.LT(amount) {
		return types.ErrInsufficientBalance
	}

	rate := e.policy.RateBps(p.DirectReferralCount)
	paidOut, reinvested := e.policy.Split(amount, p.DirectReferralCount)
	if err := e.store.Debit(id, amount); err != nil {
		e.log.Panic("ledger debit failed after validation", logging.Error(err))
	}
	e.queue(events.NewWithdrawalEvent(ctx, id, amount, paidOut, reinvested, rate, e.tsvc.GetTimeNow()))

	if !reinvested.IsZero() {
		if err := e.matrix.AddVolume(id, reinvested); err != nil {
			e.log.Panic("volume update failed after validation", logging.Error(err))
		}
		res, err := e.splitter.Split(&types.CommissionEvent{
			Payer:          id,
			PackageLevel:   p.PackageLevel,
			GrossAmount:    reinvested,
			IsReinvestment: true,
		})
		if err != nil {
			e.log.Panic("commission split failed after validation", logging.Error(err))
		}
		e.apply(ctx, res)
	}
	e.flush()
	return nil
}

// OnTick releases every pool whose interval has elapsed. Pool payouts go
// through the same cap guard as commissions; anything clipped flows back to
// the help pool.
func (e *Engine) OnTick(ctx context.Context, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		// pools keep accruing while paused and are released on the first
		// tick after the engine resumes
		return
	}
	participants := e.store.All()
	for _, pt := range types.AllPoolTypes {
		if !e.pools.Due(pt, now) {
			continue
		}
		dist, err := e.pools.Distribute(pt, now, participants)
		if err != nil {
			e.log.Panic("pool distribution failed after due check", logging.Error(err))
		}
		bonus := poolBonus(pt)
		spill := num.UintZero()
		for _, po := range dist.Payouts {
			credited, clipped, err := e.store.Credit(po.Recipient, po.Amount)
			if err != nil {
				e.log.Panic("pool credit failed", logging.Error(err))
			}
			spill.AddSum(clipped)
			e.queue(events.NewBonusDistributedEvent(ctx, po.Recipient, credited, clipped, bonus))
		}
		e.pools.Accrue(types.PoolTypeHelp, spill)
		e.queue(events.NewPoolDistributedEvent(ctx, pt, dist.Total, len(dist.Payouts), now))
	}
	e.flush()
}

func poolBonus(pt types.PoolType) types.BonusType {
	switch pt {
	case types.PoolTypeLeader:
		return types.BonusTypeLeaderPool
	case types.PoolTypeHelp:
		return types.BonusTypeHelpPool
	default:
		return types.BonusTypeClubPool
	}
}

// apply credits a split result to the ledger and the pools. Clipped credits
// roll into the help pool, so every unit of the gross amount lands somewhere.
func (e *Engine) apply(ctx context.Context, res *commission.Result) {
	e.totalAdminFee.AddSum(res.AdminFee)
	e.queue(events.NewAdminFeeCollectedEvent(ctx, e.feeRecipient, res.AdminFee))

	spill := num.UintZero()
	for _, t := range res.Transfers {
		credited, clipped, err := e.store.Credit(t.Recipient, t.Amount)
		if err != nil {
			e.log.Panic("bonus credit failed", logging.Error(err))
		}
		spill.AddSum(clipped)
		e.queue(events.NewBonusDistributedEvent(ctx, t.Recipient, credited, clipped, t.Bonus))
	}
	for _, pt := range types.AllPoolTypes {
		e.pools.Accrue(pt, res.PoolAccruals[pt])
	}
	e.pools.Accrue(types.PoolTypeHelp, spill)
}

func (e *Engine) queue(evt events.Event) {
	e.evtQueue = append(e.evtQueue, evt)
}

func (e *Engine) flush() {
	if len(e.evtQueue) == 0 {
		return
	}
	e.broker.SendBatch(e.evtQueue)
	e.evtQueue = nil
}

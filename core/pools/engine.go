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

package pools

import (
	"time"

	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

const namedLogger = "pools"

// Payout is one planned pool credit, still subject to the earnings cap.
type Payout struct {
	Recipient types.ParticipantID
	Amount    *num.Uint
}

// Distribution is the outcome of one pool tick.
type Distribution struct {
	Pool    types.PoolType
	Payouts []Payout
	Total   *num.Uint
	At      time.Time
}

// Engine accrues the three reward pools continuously and releases them to
// eligible participants on their fixed intervals. Undistributed funds roll
// over rather than vanish.
type Engine struct {
	log      *logging.Logger
	strategy HelpPoolStrategy
	pools    map[types.PoolType]*types.Pool
}

func NewEngine(log *logging.Logger, cfg Config, now time.Time) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:      log,
		strategy: cfg.HelpPoolStrategy,
		pools: map[types.PoolType]*types.Pool{
			types.PoolTypeLeader: types.NewPool(types.PoolTypeLeader, cfg.LeaderInterval.Get(), now),
			types.PoolTypeHelp:   types.NewPool(types.PoolTypeHelp, cfg.HelpInterval.Get(), now),
			types.PoolTypeClub:   types.NewPool(types.PoolTypeClub, cfg.ClubInterval.Get(), now),
		},
	}
}

// Accrue adds to a pool balance. Pools only grow between ticks.
func (e *Engine) Accrue(pool types.PoolType, amount *num.Uint) {
	if amount.IsZero() {
		return
	}
	e.pools[pool].Balance.AddSum(amount)
}

// Pool exposes the pool record for the read models.
func (e *Engine) Pool(pool types.PoolType) *types.Pool {
	return e.pools[pool]
}

// Balances returns the three pool balances, leader, help, club.
func (e *Engine) Balances() (*num.Uint, *num.Uint, *num.Uint) {
	return e.pools[types.PoolTypeLeader].Balance.Clone(),
		e.pools[types.PoolTypeHelp].Balance.Clone(),
		e.pools[types.PoolTypeClub].Balance.Clone()
}

// Due reports whether a pool's interval has elapsed.
func (e *Engine) Due(pool types.PoolType, now time.Time) bool {
	return e.pools[pool].Due(now)
}

// Distribute runs one pool tick. It fails with TooEarly inside the interval
// and leaves everything untouched. On success the payouts are final for the
// pool: the balance resets to the undistributed remainder and the timestamp
// advances, both in the same pass.
func (e *Engine) Distribute(pool types.PoolType, now time.Time, participants []*types.Participant) (*Distribution, error) {
	p := e.pools[pool]
	if !p.Due(now) {
		return nil, types.ErrTooEarly
	}

	var payouts []Payout
	switch pool {
	case types.PoolTypeLeader:
		payouts = e.leaderPayouts(p.Balance, participants)
	case types.PoolTypeHelp:
		payouts = e.helpPayouts(p.Balance, participants)
	case types.PoolTypeClub:
		payouts = e.clubPayouts(p.Balance, participants)
	}

	total := num.UintZero()
	for _, po := range payouts {
		total.AddSum(po.Amount)
	}

	p.Balance.Sub(p.Balance, total)
	p.TotalDistributed.AddSum(total)
	p.LastDistribution = now

	e.log.Info("pool distributed",
		logging.String("pool", pool.String()),
		logging.BigUint("amount", total),
		logging.Int("recipients", len(payouts)),
		logging.BigUint("rollover", p.Balance))

	return &Distribution{
		Pool:    pool,
		Payouts: payouts,
		Total:   total,
		At:      now,
	}, nil
}

// leaderPayouts splits the balance 50/50 between the two leadership tiers,
// each half pro-rata by the members' matrix volume. An empty tier's half
// rolls over.
func (e *Engine) leaderPayouts(balance *num.Uint, participants []*types.Participant) []Payout {
	half := num.UintZero().Div(balance, num.NewUint(2))

	var shining, silver []*types.Participant
	for _, p := range participants {
		if p.Blacklisted {
			continue
		}
		switch p.Rank {
		case types.LeaderRankShiningStar:
			shining = append(shining, p)
		case types.LeaderRankSilverStar:
			silver = append(silver, p)
		}
	}

	volume := func(p *types.Participant) *num.Uint { return p.MatrixVolume() }
	payouts := proRata(half, shining, volume)
	return append(payouts, proRata(half, silver, volume)...)
}

// helpPayouts distributes across all active, not fully capped participants,
// weighted per the configured strategy.
func (e *Engine) helpPayouts(balance *num.Uint, participants []*types.Participant) []Payout {
	var eligible []*types.Participant
	for _, p := range participants {
		if p.Blacklisted || p.IsCapped() {
			continue
		}
		eligible = append(eligible, p)
	}

	weight := func(*types.Participant) *num.Uint { return num.UintOne() }
	if e.strategy == HelpPoolInvestmentWeighted {
		weight = func(p *types.Participant) *num.Uint { return p.TotalInvested }
	}
	return proRata(balance, eligible, weight)
}

// clubPayouts distributes equally across club members.
func (e *Engine) clubPayouts(balance *num.Uint, participants []*types.Participant) []Payout {
	var members []*types.Participant
	for _, p := range participants {
		if p.ClubMember && !p.Blacklisted {
			members = append(members, p)
		}
	}
	return proRata(balance, members, func(*types.Participant) *num.Uint { return num.UintOne() })
}

// proRata divides a budget by weight, truncating per payout; the remainder
// stays with the caller. Zero-weight members receive nothing.
func proRata(budget *num.Uint, members []*types.Participant, weight func(*types.Participant) *num.Uint) []Payout {
	if budget.IsZero() || len(members) == 0 {
		return nil
	}

	totalWeight := num.UintZero()
	for _, m := range members {
		totalWeight.AddSum(weight(m))
	}
	if totalWeight.IsZero() {
		return nil
	}

	payouts := make([]Payout, 0, len(members))
	for _, m := range members {
		amt := num.UintZero().Mul(budget, weight(m))
		amt.Div(amt, totalWeight)
		if amt.IsZero() {
			continue
		}
		payouts = append(payouts, Payout{Recipient: m.ID, Amount: amt})
	}
	return payouts
}

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

package commission

import (
	"fmt"

	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

const namedLogger = "commission"

// levelBonusDepth is how many sponsor-ancestors share the level bonus.
const levelBonusDepth = 10

// Store gives the splitter read access to the participant ledger.
type Store interface {
	Get(id types.ParticipantID) (*types.Participant, bool)
	SponsorAncestors(id types.ParticipantID, n int) []*types.Participant
}

// Result is the full allocation of one commission event. The invariant the
// splitter guarantees: sum of transfers + admin fee + pool accruals equals
// the gross amount exactly, truncation remainders included.
type Result struct {
	Package       *types.Package
	AdminFee      *num.Uint
	Distributable *num.Uint
	Transfers     []*types.Transfer
	PoolAccruals  map[types.PoolType]*num.Uint
}

// Engine computes the fixed-percentage allocation of a payment across
// direct, level and upline bonuses and the three reward pools. It never
// mutates the ledger.
type Engine struct {
	log     *logging.Logger
	catalog map[uint32]*types.Package
	levels  [levelBonusDepth]uint64
	store   Store
}

func NewEngine(log *logging.Logger, store Store, packages []*types.Package) (*Engine, error) {
	log = log.Named(namedLogger)

	e := &Engine{
		log:     log,
		catalog: make(map[uint32]*types.Package, len(packages)),
		levels:  types.DefaultLevelBonusBps,
		store:   store,
	}

	var levelSum uint64
	for _, bps := range e.levels {
		levelSum += bps
	}

	for _, pkg := range packages {
		if err := pkg.Validate(); err != nil {
			return nil, err
		}
		if pkg.LevelBonusBps != levelSum {
			return nil, fmt.Errorf("%w: tier %d level bonus %d bps does not match the per-level table (%d bps)",
				types.ErrInvalidPackage, pkg.Tier, pkg.LevelBonusBps, levelSum)
		}
		if _, ok := e.catalog[pkg.Tier]; ok {
			return nil, fmt.Errorf("%w: duplicate tier %d", types.ErrInvalidPackage, pkg.Tier)
		}
		e.catalog[pkg.Tier] = pkg
	}
	return e, nil
}

// Package returns the catalog entry for a tier.
func (e *Engine) Package(tier uint32) (*types.Package, bool) {
	pkg, ok := e.catalog[tier]
	return pkg, ok
}

// share truncates amount*bps/10000 to integer minor units.
func share(amount *num.Uint, bps uint64) *num.Uint {
	out := num.UintZero().Mul(amount, num.NewUint(bps))
	return out.Div(out, num.NewUint(types.BpsDenominator))
}

// Split computes the per-recipient allocation for one commission event.
// Ancestors missing from the chain, and blacklisted ones, have their share
// rolled into the help pool, never silently dropped. Capped ancestors stay
// in the walk; the cap guard clips their credit on application.
func (e *Engine) Split(ev *types.CommissionEvent) (*Result, error) {
	pkg, ok := e.catalog[ev.PackageLevel]
	if !ok {
		return nil, types.ErrUnknownPackage
	}
	if ev.GrossAmount == nil || ev.GrossAmount.IsZero() {
		return nil, types.ErrZeroAmount
	}

	adminFee := share(ev.GrossAmount, pkg.AdminFeeBps)
	distributable := num.UintZero().Sub(ev.GrossAmount, adminFee)

	res := &Result{
		Package:       pkg,
		AdminFee:      adminFee,
		Distributable: distributable,
		PoolAccruals: map[types.PoolType]*num.Uint{
			types.PoolTypeLeader: num.UintZero(),
			types.PoolTypeHelp:   num.UintZero(),
			types.PoolTypeClub:   num.UintZero(),
		},
	}

	// one chain lookup covers the level walk and the disjoint upline set
	// beyond it.
	ancestors := e.store.SponsorAncestors(ev.Payer, levelBonusDepth+types.UplineBonusWidth)

	allocated := num.UintZero()
	helpSpill := num.UintZero()

	credit := func(recipient *types.Participant, amount *num.Uint, bonus types.BonusType) {
		allocated.AddSum(amount)
		if recipient == nil || recipient.Blacklisted {
			helpSpill.AddSum(amount)
			return
		}
		res.Transfers = append(res.Transfers, &types.Transfer{
			Recipient: recipient.ID,
			Amount:    amount,
			Bonus:     bonus,
		})
	}

	// direct bonus to the immediate sponsor.
	credit(ancestors[0], share(distributable, pkg.DirectBonusBps), types.BonusTypeDirect)

	// level bonus over the fixed per-level table.
	for i, bps := range e.levels {
		credit(ancestors[i], share(distributable, bps), types.BonusTypeLevel)
	}

	// upline bonus split equally across the ancestors beyond the level
	// walk, so no ancestor is paid twice in one event.
	uplineTotal := share(distributable, pkg.UplineBonusBps)
	perUpline := num.UintZero().Div(uplineTotal, num.NewUint(types.UplineBonusWidth))
	spent := num.UintZero()
	for i := levelBonusDepth; i < levelBonusDepth+types.UplineBonusWidth; i++ {
		credit(ancestors[i], perUpline.Clone(), types.BonusTypeUpline)
		spent.AddSum(perUpline)
	}
	// equal-split truncation leftover.
	leftover := num.UintZero().Sub(uplineTotal, spent)
	allocated.AddSum(leftover)
	helpSpill.AddSum(leftover)

	// pool accruals.
	for _, acc := range []struct {
		pool types.PoolType
		bps  uint64
	}{
		{types.PoolTypeLeader, pkg.LeaderPoolBps},
		{types.PoolTypeHelp, pkg.HelpPoolBps},
		{types.PoolTypeClub, pkg.ClubPoolBps},
	} {
		amt := share(distributable, acc.bps)
		res.PoolAccruals[acc.pool].AddSum(amt)
		allocated.AddSum(amt)
	}

	// sweep the cumulative truncation remainder into the help pool so the
	// split sums to the distributable exactly.
	remainder := num.UintZero().Sub(distributable, allocated)
	res.PoolAccruals[types.PoolTypeHelp].AddSum(helpSpill, remainder)

	if e.log.IsDebug() {
		e.log.Debug("commission split",
			logging.String("payer", ev.Payer.String()),
			logging.BigUint("gross", ev.GrossAmount),
			logging.BigUint("admin-fee", adminFee),
			logging.Int("transfers", len(res.Transfers)),
			logging.BigUint("help-spill", helpSpill))
	}
	return res, nil
}

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

package types

import (
	"fmt"

	"github.com/timecapsulellc/leadfive/libs/num"
)

// BpsDenominator is the fixed-point denominator for all percentage fields.
const BpsDenominator = 10000

// Package is an immutable catalog entry. The admin fee applies to the gross
// amount; the six bonus fields apply to the remaining distributable and must
// sum to exactly 100%.
type Package struct {
	Tier  uint32
	Price *num.Uint

	AdminFeeBps    uint64
	DirectBonusBps uint64
	LevelBonusBps  uint64
	UplineBonusBps uint64
	LeaderPoolBps  uint64
	HelpPoolBps    uint64
	ClubPoolBps    uint64
}

// Validate enforces the catalog invariants at catalog-update time so that
// event-time arithmetic can never fail.
func (p *Package) Validate() error {
	if p.Tier == 0 {
		return fmt.Errorf("%w: tier 0 is reserved", ErrInvalidPackage)
	}
	if p.Price == nil || p.Price.IsZero() {
		return fmt.Errorf("%w: tier %d has no price", ErrInvalidPackage, p.Tier)
	}
	if p.AdminFeeBps >= BpsDenominator {
		return fmt.Errorf("%w: tier %d admin fee %d bps", ErrInvalidPackage, p.Tier, p.AdminFeeBps)
	}
	sum := p.DirectBonusBps + p.LevelBonusBps + p.UplineBonusBps +
		p.LeaderPoolBps + p.HelpPoolBps + p.ClubPoolBps
	if sum != BpsDenominator {
		return fmt.Errorf("%w: tier %d bonus percentages sum to %d bps", ErrInvalidPackage, p.Tier, sum)
	}
	return nil
}

// DefaultLevelBonusBps is the per-level subdivision of the level bonus, in
// bps of the distributable: 3% for the first sponsor level, 1% for levels
// 2-6, 0.5% for levels 7-10.
var DefaultLevelBonusBps = [10]uint64{300, 100, 100, 100, 100, 100, 50, 50, 50, 50}

// UplineBonusWidth is how many sponsor-ancestors beyond the level-bonus ten
// share the upline bonus equally.
const UplineBonusWidth = 30

// usd returns the 6-decimal minor unit representation of a whole dollar
// amount.
func usd(dollars uint64) *num.Uint {
	return num.UintZero().Mul(num.NewUint(dollars), num.NewUint(1000000))
}

// DefaultPackages is the production catalog: the four presentation tiers
// plus the contract's extended amounts. The upper tiers route 5% of the
// help share into the club pool.
func DefaultPackages() []*Package {
	prices := []uint64{30, 50, 100, 200, 300, 500, 1000, 2000}
	out := make([]*Package, 0, len(prices))
	for i, price := range prices {
		p := &Package{
			Tier:           uint32(i + 1),
			Price:          usd(price),
			AdminFeeBps:    500,
			DirectBonusBps: 4000,
			LevelBonusBps:  1000,
			UplineBonusBps: 1000,
			LeaderPoolBps:  1000,
			HelpPoolBps:    3000,
		}
		if p.Tier > 4 {
			p.HelpPoolBps = 2500
			p.ClubPoolBps = 500
		}
		out = append(out, p)
	}
	return out
}

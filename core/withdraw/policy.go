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

package withdraw

import (
	"fmt"
	"sort"

	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
)

// Tier maps a direct-referral count to the liquid fraction of a withdrawal,
// in bps. The remainder is force-reinvested.
type Tier struct {
	MinDirectReferrals uint64
	RateBps            uint64
}

// DefaultTiers is the production step table: 70% liquid with no direct
// referrals, 75% from 5, 80% from 20.
func DefaultTiers() []Tier {
	return []Tier{
		{MinDirectReferrals: 0, RateBps: 7000},
		{MinDirectReferrals: 5, RateBps: 7500},
		{MinDirectReferrals: 20, RateBps: 8000},
	}
}

// Policy is the withdrawal-rate step function. The rate is monotonically
// non-decreasing in the number of direct referrals.
type Policy struct {
	tiers []Tier
}

func NewPolicy(tiers []Tier) (*Policy, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("withdrawal policy needs at least one tier")
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinDirectReferrals < sorted[j].MinDirectReferrals
	})
	if sorted[0].MinDirectReferrals != 0 {
		return nil, fmt.Errorf("withdrawal policy needs a base tier at 0 direct referrals")
	}
	var last uint64
	for _, t := range sorted {
		if t.RateBps < last || t.RateBps > types.BpsDenominator {
			return nil, fmt.Errorf("withdrawal rates must be non-decreasing and at most 100%%")
		}
		last = t.RateBps
	}
	return &Policy{tiers: sorted}, nil
}

// RateBps returns the liquid fraction for the given direct-referral count.
func (p *Policy) RateBps(directReferrals uint64) uint64 {
	rate := p.tiers[0].RateBps
	for _, t := range p.tiers {
		if directReferrals < t.MinDirectReferrals {
			break
		}
		rate = t.RateBps
	}
	return rate
}

// Rate returns the liquid fraction for the given direct-referral count as a
// decimal factor in [0, 1].
func (p *Policy) Rate(directReferrals uint64) num.Decimal {
	return num.DecimalFromInt64(int64(p.RateBps(directReferrals))).
		Div(num.DecimalFromInt64(types.BpsDenominator))
}

// Split divides a requested withdrawal into the paid-out and reinvested
// slices. The liquid slice is floored, so paidOut + reinvested == requested,
// always.
func (p *Policy) Split(requested *num.Uint, directReferrals uint64) (paidOut, reinvested *num.Uint) {
	rate := p.Rate(directReferrals)
	paidOut, _ = num.UintFromDecimal(requested.ToDecimal().Mul(rate).Floor())
	reinvested = num.UintZero().Sub(requested, paidOut)
	return paidOut, reinvested
}

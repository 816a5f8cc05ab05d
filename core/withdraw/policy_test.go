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

package withdraw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsulellc/leadfive/core/withdraw"
	"github.com/timecapsulellc/leadfive/libs/num"
)

func TestPolicy(t *testing.T) {
	t.Run("The rate steps up with direct referrals", testRateSteps)
	t.Run("Split conserves the requested amount", testSplitConserves)
	t.Run("Invalid tier tables are rejected", testTierValidation)
}

func testRateSteps(t *testing.T) {
	policy, err := withdraw.NewPolicy(withdraw.DefaultTiers())
	require.NoError(t, err)

	cases := []struct {
		directs uint64
		want    uint64
	}{
		{0, 7000},
		{4, 7000},
		{5, 7500},
		{19, 7500},
		{20, 8000},
		{1000, 8000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, policy.RateBps(c.directs), "%d direct referrals", c.directs)
	}

	// the decimal factor matches the bps table
	assert.True(t, policy.Rate(0).Equal(num.MustDecimalFromString("0.7")), "rate %s", policy.Rate(0))
	assert.True(t, policy.Rate(20).Equal(num.MustDecimalFromString("0.8")), "rate %s", policy.Rate(20))
}

func testSplitConserves(t *testing.T) {
	policy, err := withdraw.NewPolicy(withdraw.DefaultTiers())
	require.NoError(t, err)

	// $100 at the base tier: $70 liquid, $30 reinvested
	paid, reinvested := policy.Split(num.NewUint(100_000_000), 0)
	assert.True(t, paid.EQ(num.NewUint(70_000_000)), "paid %s", paid)
	assert.True(t, reinvested.EQ(num.NewUint(30_000_000)), "reinvested %s", reinvested)

	// amounts that do not divide evenly still sum back exactly
	for _, amount := range []uint64{1, 3, 7, 99, 12345677} {
		for _, directs := range []uint64{0, 5, 20} {
			req := num.NewUint(amount)
			paid, reinvested := policy.Split(req, directs)
			assert.True(t, num.Sum(paid, reinvested).EQ(req),
				"amount %d directs %d: %s + %s", amount, directs, paid, reinvested)
		}
	}
}

func testTierValidation(t *testing.T) {
	_, err := withdraw.NewPolicy(nil)
	require.Error(t, err)

	// no base tier at zero
	_, err = withdraw.NewPolicy([]withdraw.Tier{{MinDirectReferrals: 5, RateBps: 7000}})
	require.Error(t, err)

	// decreasing rates
	_, err = withdraw.NewPolicy([]withdraw.Tier{
		{MinDirectReferrals: 0, RateBps: 8000},
		{MinDirectReferrals: 5, RateBps: 7000},
	})
	require.Error(t, err)

	// above 100%
	_, err = withdraw.NewPolicy([]withdraw.Tier{{MinDirectReferrals: 0, RateBps: 10001}})
	require.Error(t, err)
}

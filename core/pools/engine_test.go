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

package pools_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsulellc/leadfive/core/pools"
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

var t0 = time.Unix(1700000000, 0)

func TestEngine(t *testing.T) {
	t.Run("Distribution before the interval fails", testDistributionTooEarly)
	t.Run("Leader pool splits between the two tiers by matrix volume", testLeaderPoolSplit)
	t.Run("An empty leader tier's half rolls over", testLeaderTierRollover)
	t.Run("Help pool shares equally over active participants", testHelpPoolEqualShare)
	t.Run("Help pool can weigh by investment", testHelpPoolInvestmentWeighted)
	t.Run("Club pool pays members only", testClubPoolMembersOnly)
	t.Run("Capped and blacklisted participants are skipped", testIneligibleSkipped)
	t.Run("Distribution advances the schedule", testDistributionAdvancesSchedule)
}

func newEngine(t *testing.T, strategy pools.HelpPoolStrategy) *pools.Engine {
	t.Helper()
	cfg := pools.NewDefaultConfig()
	cfg.HelpPoolStrategy = strategy
	return pools.NewEngine(logging.NewTestLogger(), cfg, t0)
}

// member builds a participant with the given leg volumes.
func member(id string, rank types.LeaderRank, leftUSD, rightUSD uint64) *types.Participant {
	p := types.NewParticipant(types.ParticipantID(id), "root", 1, num.NewUint(100_000_000), t0)
	p.Rank = rank
	p.LeftVolume = num.NewUint(leftUSD * 1_000_000)
	p.RightVolume = num.NewUint(rightUSD * 1_000_000)
	return p
}

func after(interval time.Duration) time.Time {
	return t0.Add(interval + time.Second)
}

func testDistributionTooEarly(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeLeader, num.NewUint(1000))

	_, err := e.Distribute(types.PoolTypeLeader, t0.Add(time.Hour), nil)
	require.ErrorIs(t, err, types.ErrTooEarly)

	// balance untouched
	leader, _, _ := e.Balances()
	assert.True(t, leader.EQ(num.NewUint(1000)))
}

func testLeaderPoolSplit(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeLeader, num.NewUint(1_000_000))

	participants := []*types.Participant{
		member("shining-a", types.LeaderRankShiningStar, 300, 100), // volume 400
		member("shining-b", types.LeaderRankShiningStar, 100, 0),   // volume 100
		member("silver-a", types.LeaderRankSilverStar, 500, 500),
		member("nobody", types.LeaderRankNone, 900, 900),
	}

	dist, err := e.Distribute(types.PoolTypeLeader, after(7*24*time.Hour), participants)
	require.NoError(t, err)

	byID := map[types.ParticipantID]*num.Uint{}
	for _, po := range dist.Payouts {
		byID[po.Recipient] = po.Amount
	}
	require.Len(t, byID, 3)
	// each tier gets half, shining's pro-rata by volume: 400:100
	assert.True(t, byID["shining-a"].EQ(num.NewUint(400_000)), "shining-a %s", byID["shining-a"])
	assert.True(t, byID["shining-b"].EQ(num.NewUint(100_000)))
	assert.True(t, byID["silver-a"].EQ(num.NewUint(500_000)))
	assert.Nil(t, byID["nobody"])
}

func testLeaderTierRollover(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeLeader, num.NewUint(1_000_000))

	// no silver stars at all
	participants := []*types.Participant{
		member("shining-a", types.LeaderRankShiningStar, 100, 0),
	}
	dist, err := e.Distribute(types.PoolTypeLeader, after(7*24*time.Hour), participants)
	require.NoError(t, err)

	assert.True(t, dist.Total.EQ(num.NewUint(500_000)))
	leader, _, _ := e.Balances()
	assert.True(t, leader.EQ(num.NewUint(500_000)), "rollover %s", leader)
}

func testHelpPoolEqualShare(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeHelp, num.NewUint(900_000))

	participants := []*types.Participant{
		member("a", types.LeaderRankNone, 0, 0),
		member("b", types.LeaderRankNone, 0, 0),
		member("c", types.LeaderRankNone, 0, 0),
	}
	dist, err := e.Distribute(types.PoolTypeHelp, after(7*24*time.Hour), participants)
	require.NoError(t, err)

	require.Len(t, dist.Payouts, 3)
	for _, po := range dist.Payouts {
		assert.True(t, po.Amount.EQ(num.NewUint(300_000)))
	}
}

func testHelpPoolInvestmentWeighted(t *testing.T) {
	e := newEngine(t, pools.HelpPoolInvestmentWeighted)
	e.Accrue(types.PoolTypeHelp, num.NewUint(900_000))

	a := member("a", types.LeaderRankNone, 0, 0)
	b := member("b", types.LeaderRankNone, 0, 0)
	b.TotalInvested = num.NewUint(200_000_000) // double a's investment

	dist, err := e.Distribute(types.PoolTypeHelp, after(7*24*time.Hour), []*types.Participant{a, b})
	require.NoError(t, err)

	byID := map[types.ParticipantID]*num.Uint{}
	for _, po := range dist.Payouts {
		byID[po.Recipient] = po.Amount
	}
	assert.True(t, byID["a"].EQ(num.NewUint(300_000)))
	assert.True(t, byID["b"].EQ(num.NewUint(600_000)))
}

func testClubPoolMembersOnly(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeClub, num.NewUint(500_000))

	a := member("a", types.LeaderRankNone, 0, 0)
	a.ClubMember = true
	b := member("b", types.LeaderRankNone, 0, 0)

	dist, err := e.Distribute(types.PoolTypeClub, after(30*24*time.Hour), []*types.Participant{a, b})
	require.NoError(t, err)

	require.Len(t, dist.Payouts, 1)
	assert.Equal(t, types.ParticipantID("a"), dist.Payouts[0].Recipient)
	assert.True(t, dist.Payouts[0].Amount.EQ(num.NewUint(500_000)))
}

func testIneligibleSkipped(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeHelp, num.NewUint(600_000))

	active := member("active", types.LeaderRankNone, 0, 0)
	capped := member("capped", types.LeaderRankNone, 0, 0)
	capped.TotalEarned = capped.EarningsCap.Clone()
	listed := member("listed", types.LeaderRankNone, 0, 0)
	listed.Blacklisted = true

	dist, err := e.Distribute(types.PoolTypeHelp, after(7*24*time.Hour), []*types.Participant{active, capped, listed})
	require.NoError(t, err)

	require.Len(t, dist.Payouts, 1)
	assert.Equal(t, types.ParticipantID("active"), dist.Payouts[0].Recipient)
	assert.True(t, dist.Payouts[0].Amount.EQ(num.NewUint(600_000)))
}

func testDistributionAdvancesSchedule(t *testing.T) {
	e := newEngine(t, pools.HelpPoolEqualShare)
	e.Accrue(types.PoolTypeHelp, num.NewUint(100))

	now := after(7 * 24 * time.Hour)
	_, err := e.Distribute(types.PoolTypeHelp, now, []*types.Participant{member("a", types.LeaderRankNone, 0, 0)})
	require.NoError(t, err)

	// a second tick in the same window fails
	_, err = e.Distribute(types.PoolTypeHelp, now.Add(time.Hour), nil)
	require.ErrorIs(t, err, types.ErrTooEarly)
	assert.False(t, e.Due(types.PoolTypeHelp, now.Add(time.Hour)))

	pool := e.Pool(types.PoolTypeHelp)
	assert.Equal(t, now, pool.LastDistribution)
	assert.True(t, pool.TotalDistributed.EQ(num.NewUint(100)))
}

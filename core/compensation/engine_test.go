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

package compensation_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsulellc/leadfive/core/compensation"
	"github.com/timecapsulellc/leadfive/core/compensation/mocks"
	"github.com/timecapsulellc/leadfive/core/events"
	"github.com/timecapsulellc/leadfive/core/pools"
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

func TestEngine(t *testing.T) {
	t.Run("Registration pays the sponsor and emits events", testRegistrationPaysSponsor)
	t.Run("Registration validations leave no partial state", testRegistrationValidation)
	t.Run("Upgrade raises the cap and pays a fresh split", testUpgrade)
	t.Run("Upgrade validations", testUpgradeValidation)
	t.Run("Withdrawal splits into paid-out and reinvested", testWithdrawal)
	t.Run("Withdrawal validations", testWithdrawalValidation)
	t.Run("A paused engine rejects all operations", testPauseRejectsOperations)
	t.Run("A paused engine holds pool distributions", testPauseHoldsPoolDistribution)
	t.Run("Blacklisted participants are locked out", testBlacklistLockout)
	t.Run("Due pools pay out on tick", testOnTickDistributesPools)
	t.Run("Admin fee tally accumulates", testAdminFeeTally)
}

type testEngine struct {
	ctrl   *gomock.Controller
	engine *compensation.Engine
	broker *mocks.MockBroker
	tsvc   *mocks.MockTimeService
	now    time.Time
	events []events.Event
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	te := &testEngine{
		ctrl: ctrl,
		now:  time.Unix(1700000000, 0),
	}

	te.broker = mocks.NewMockBroker(ctrl)
	te.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes().Do(func(evts []events.Event) {
		te.events = append(te.events, evts...)
	})
	te.broker.EXPECT().Send(gomock.Any()).AnyTimes().Do(func(e events.Event) {
		te.events = append(te.events, e)
	})

	te.tsvc = mocks.NewMockTimeService(ctrl)
	te.tsvc.EXPECT().GetTimeNow().AnyTimes().DoAndReturn(func() time.Time {
		return te.now
	})

	log := logging.NewTestLogger()
	poolsEngine := pools.NewEngine(log, pools.NewDefaultConfig(), te.now)
	engine, err := compensation.NewEngine(log, compensation.NewDefaultConfig(), te.broker, te.tsvc, poolsEngine, types.DefaultPackages())
	require.NoError(t, err)
	te.engine = engine
	return te
}

func (te *testEngine) eventCount(t events.Type) int {
	n := 0
	for _, e := range te.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}

func testRegistrationPaysSponsor(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))

	info, err := te.engine.GetUserInfo("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.PackageLevel)
	assert.True(t, info.TotalInvested.EQ(num.NewUint(30_000_000)))
	assert.True(t, info.EarningsCap.EQ(num.NewUint(120_000_000)))
	assert.True(t, info.Balance.IsZero())

	// the root sponsor collects the direct bonus and the level-1 slice
	rootInfo, err := te.engine.GetUserInfo("root")
	require.NoError(t, err)
	assert.True(t, rootInfo.Balance.EQ(num.NewUint(12_255_000)), "root balance %s", rootInfo.Balance)
	assert.EqualValues(t, 1, rootInfo.DirectReferrals)
	assert.EqualValues(t, 1, rootInfo.TeamSize)

	// placement is visible through the matrix read model
	left, right, err := te.engine.GetMatrixChildren("root")
	require.NoError(t, err)
	assert.Equal(t, types.ParticipantID("alice"), left)
	assert.Empty(t, right)

	assert.Equal(t, 1, te.eventCount(events.UserRegisteredEvent))
	assert.Equal(t, 1, te.eventCount(events.AdminFeeCollectedEvent))
	assert.NotZero(t, te.eventCount(events.BonusDistributedEvent))
}

func testRegistrationValidation(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))

	require.ErrorIs(t, te.engine.Register(ctx, "alice", "root", 1), types.ErrAlreadyRegistered)
	require.ErrorIs(t, te.engine.Register(ctx, "bob", "nobody", 1), types.ErrInvalidSponsor)
	require.ErrorIs(t, te.engine.Register(ctx, "bob", "root", 99), types.ErrUnknownPackage)

	// no half-registered bob
	_, err := te.engine.GetUserInfo("bob")
	require.ErrorIs(t, err, types.ErrUnknownParticipant)
}

func testUpgrade(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))
	rootBefore, _ := te.engine.GetUserInfo("root")

	require.NoError(t, te.engine.Upgrade(ctx, "alice", 2))

	info, _ := te.engine.GetUserInfo("alice")
	assert.EqualValues(t, 2, info.PackageLevel)
	// $30 + $50 invested, cap 4x
	assert.True(t, info.TotalInvested.EQ(num.NewUint(80_000_000)))
	assert.True(t, info.EarningsCap.EQ(num.NewUint(320_000_000)))

	// the sponsor collects a fresh direct bonus on the full $50:
	// 40% + 3% of $47.50
	rootAfter, _ := te.engine.GetUserInfo("root")
	gain := num.UintZero().Sub(rootAfter.Balance, rootBefore.Balance)
	assert.True(t, gain.EQ(num.NewUint(20_425_000)), "sponsor gain %s", gain)

	assert.Equal(t, 1, te.eventCount(events.PackageUpgradedEvent))
}

func testUpgradeValidation(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 3))

	require.ErrorIs(t, te.engine.Upgrade(ctx, "nobody", 2), types.ErrUnknownParticipant)
	require.ErrorIs(t, te.engine.Upgrade(ctx, "alice", 3), types.ErrNotAnUpgrade)
	require.ErrorIs(t, te.engine.Upgrade(ctx, "alice", 2), types.ErrNotAnUpgrade)
	require.ErrorIs(t, te.engine.Upgrade(ctx, "alice", 99), types.ErrUnknownPackage)
}

func testWithdrawal(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))
	// bob's registration earns alice her balance
	require.NoError(t, te.engine.Register(ctx, "bob", "alice", 1))

	info, _ := te.engine.GetUserInfo("alice")
	require.True(t, info.Balance.EQ(num.NewUint(12_255_000)), "alice balance %s", info.Balance)
	require.EqualValues(t, 7000, info.WithdrawalRateBps)

	require.NoError(t, te.engine.Withdraw(ctx, "alice", num.NewUint(10_000_000)))

	// 70% paid out, 30% reinvested; nothing of it returns to her balance
	info, _ = te.engine.GetUserInfo("alice")
	assert.True(t, info.Balance.EQ(num.NewUint(2_255_000)), "alice balance %s", info.Balance)
	// reinvestment does not raise the invested total or the cap
	assert.True(t, info.TotalInvested.EQ(num.NewUint(30_000_000)))
	assert.True(t, info.EarningsCap.EQ(num.NewUint(120_000_000)))

	// the reinvested $3 runs a full split, paying root a direct bonus
	assert.Equal(t, 1, te.eventCount(events.WithdrawalEvent))
	assert.Equal(t, 3, te.eventCount(events.AdminFeeCollectedEvent))
}

func testWithdrawalValidation(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))

	require.ErrorIs(t, te.engine.Withdraw(ctx, "nobody", num.NewUint(1)), types.ErrUnknownParticipant)
	require.ErrorIs(t, te.engine.Withdraw(ctx, "alice", num.UintZero()), types.ErrZeroAmount)
	require.ErrorIs(t, te.engine.Withdraw(ctx, "alice", num.NewUint(1)), types.ErrInsufficientBalance)
}

func testPauseRejectsOperations(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))

	te.engine.Pause()
	assert.True(t, te.engine.Paused())

	require.ErrorIs(t, te.engine.Register(ctx, "bob", "root", 1), types.ErrPaused)
	require.ErrorIs(t, te.engine.Upgrade(ctx, "alice", 2), types.ErrPaused)
	require.ErrorIs(t, te.engine.Withdraw(ctx, "alice", num.NewUint(1)), types.ErrPaused)

	// read models keep working
	_, err := te.engine.GetUserInfo("alice")
	require.NoError(t, err)

	te.engine.Unpause()
	require.NoError(t, te.engine.Register(ctx, "bob", "root", 1))
}

func testPauseHoldsPoolDistribution(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))
	require.NoError(t, te.engine.Register(ctx, "bob", "alice", 1))

	_, helpBefore, _ := te.engine.GetPoolBalances()
	require.False(t, helpBefore.IsZero())

	te.engine.Pause()
	te.now = te.now.Add(8 * 24 * time.Hour)
	te.engine.OnTick(ctx, te.now)

	// nothing moves while paused
	assert.Zero(t, te.eventCount(events.PoolDistributedEvent))
	_, helpHeld, _ := te.engine.GetPoolBalances()
	assert.True(t, helpHeld.EQ(helpBefore), "help pool %s -> %s", helpBefore, helpHeld)

	// the held pools release on the first tick after resuming
	te.engine.Unpause()
	te.engine.OnTick(ctx, te.now)
	assert.Equal(t, 2, te.eventCount(events.PoolDistributedEvent))
	_, helpAfter, _ := te.engine.GetPoolBalances()
	assert.True(t, helpAfter.LT(helpBefore), "help pool %s -> %s", helpBefore, helpAfter)
}

func testBlacklistLockout(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))
	require.NoError(t, te.engine.Register(ctx, "bob", "alice", 1))

	require.ErrorIs(t, te.engine.SetBlacklisted("nobody", true), types.ErrUnknownParticipant)
	require.NoError(t, te.engine.SetBlacklisted("alice", true))

	require.ErrorIs(t, te.engine.Upgrade(ctx, "alice", 2), types.ErrBlacklisted)
	require.ErrorIs(t, te.engine.Withdraw(ctx, "alice", num.NewUint(1)), types.ErrBlacklisted)
	require.ErrorIs(t, te.engine.Register(ctx, "carol", "alice", 1), types.ErrInvalidSponsor)

	require.NoError(t, te.engine.SetBlacklisted("alice", false))
	require.NoError(t, te.engine.Register(ctx, "carol", "alice", 1))
}

func testOnTickDistributesPools(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1))
	require.NoError(t, te.engine.Register(ctx, "bob", "alice", 1))

	_, helpBefore, _ := te.engine.GetPoolBalances()
	require.False(t, helpBefore.IsZero())

	// inside the interval nothing moves
	te.engine.OnTick(ctx, te.now.Add(time.Hour))
	assert.Zero(t, te.eventCount(events.PoolDistributedEvent))

	te.now = te.now.Add(8 * 24 * time.Hour)
	te.engine.OnTick(ctx, te.now)

	// leader and help ticked; the club interval is longer
	assert.Equal(t, 2, te.eventCount(events.PoolDistributedEvent))
	_, helpAfter, _ := te.engine.GetPoolBalances()
	assert.True(t, helpAfter.LT(helpBefore), "help pool %s -> %s", helpBefore, helpAfter)
}

func testAdminFeeTally(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	require.True(t, te.engine.TotalAdminFeesCollected().IsZero())
	require.NoError(t, te.engine.Register(ctx, "alice", "root", 1)) // $1.50
	require.NoError(t, te.engine.Register(ctx, "bob", "root", 3))   // $5.00

	assert.True(t, te.engine.TotalAdminFeesCollected().EQ(num.NewUint(6_500_000)),
		"fees %s", te.engine.TotalAdminFeesCollected())
}

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

package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsulellc/leadfive/core/ledger"
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
)

func TestStore(t *testing.T) {
	t.Run("Duplicate registration is rejected", testDuplicateRegistrationRejected)
	t.Run("All returns participants in registration order", testAllKeepsRegistrationOrder)
	t.Run("Sponsor ancestors walk stops at the root", testSponsorAncestorsStopAtRoot)
	t.Run("Credit is clipped at the earnings cap", testCreditClippedAtCap)
	t.Run("Capped participants earn nothing", testCappedParticipantEarnsNothing)
	t.Run("Debit rejects an overdraw", testDebitRejectsOverdraw)
	t.Run("Adding investment raises the cap", testAddInvestmentRaisesCap)
}

func newParticipant(id, sponsor string, priceUSD uint64) *types.Participant {
	price := num.NewUint(priceUSD * 1_000_000)
	return types.NewParticipant(types.ParticipantID(id), types.ParticipantID(sponsor), 1, price, time.Unix(1700000000, 0))
}

func testDuplicateRegistrationRejected(t *testing.T) {
	store := ledger.NewStore()
	require.NoError(t, store.Create(newParticipant("alice", "", 30)))
	require.ErrorIs(t, store.Create(newParticipant("alice", "", 30)), types.ErrAlreadyRegistered)
}

func testAllKeepsRegistrationOrder(t *testing.T) {
	store := ledger.NewStore()
	ids := []string{"root", "alice", "bob", "carol"}
	for _, id := range ids {
		require.NoError(t, store.Create(newParticipant(id, "", 30)))
	}
	all := store.All()
	require.Len(t, all, len(ids))
	for i, id := range ids {
		assert.Equal(t, types.ParticipantID(id), all[i].ID)
	}
}

func testSponsorAncestorsStopAtRoot(t *testing.T) {
	store := ledger.NewStore()
	require.NoError(t, store.Create(newParticipant("root", "", 30)))
	require.NoError(t, store.Create(newParticipant("alice", "root", 30)))
	require.NoError(t, store.Create(newParticipant("bob", "alice", 30)))

	ancestors := store.SponsorAncestors("bob", 5)
	require.Len(t, ancestors, 5)
	require.NotNil(t, ancestors[0])
	require.NotNil(t, ancestors[1])
	assert.Equal(t, types.ParticipantID("alice"), ancestors[0].ID)
	assert.Equal(t, types.ParticipantID("root"), ancestors[1].ID)
	// levels beyond the root stay nil
	assert.Nil(t, ancestors[2])
	assert.Nil(t, ancestors[3])
	assert.Nil(t, ancestors[4])
}

func testCreditClippedAtCap(t *testing.T) {
	store := ledger.NewStore()
	// $100 package, cap $400
	require.NoError(t, store.Create(newParticipant("alice", "", 100)))

	// bring earnings to $398
	credited, clipped, err := store.Credit("alice", num.NewUint(398_000_000))
	require.NoError(t, err)
	assert.True(t, credited.EQ(num.NewUint(398_000_000)))
	assert.True(t, clipped.IsZero())

	// a $10 credit only has $2 of room left
	credited, clipped, err = store.Credit("alice", num.NewUint(10_000_000))
	require.NoError(t, err)
	assert.True(t, credited.EQ(num.NewUint(2_000_000)), "credited %s", credited)
	assert.True(t, clipped.EQ(num.NewUint(8_000_000)), "clipped %s", clipped)

	p, ok := store.Get("alice")
	require.True(t, ok)
	assert.True(t, p.IsCapped())
	assert.True(t, p.TotalEarned.EQ(p.EarningsCap))
}

func testCappedParticipantEarnsNothing(t *testing.T) {
	store := ledger.NewStore()
	require.NoError(t, store.Create(newParticipant("alice", "", 100)))
	_, _, err := store.Credit("alice", num.NewUint(400_000_000))
	require.NoError(t, err)

	credited, clipped, err := store.Credit("alice", num.NewUint(50_000_000))
	require.NoError(t, err)
	assert.True(t, credited.IsZero())
	assert.True(t, clipped.EQ(num.NewUint(50_000_000)))
}

func testDebitRejectsOverdraw(t *testing.T) {
	store := ledger.NewStore()
	require.NoError(t, store.Create(newParticipant("alice", "", 100)))
	_, _, err := store.Credit("alice", num.NewUint(10_000_000))
	require.NoError(t, err)

	require.ErrorIs(t, store.Debit("alice", num.NewUint(10_000_001)), types.ErrInsufficientBalance)
	require.NoError(t, store.Debit("alice", num.NewUint(10_000_000)))

	p, _ := store.Get("alice")
	assert.True(t, p.WithdrawableBalance.IsZero())
	// lifetime earnings are untouched by withdrawals
	assert.True(t, p.TotalEarned.EQ(num.NewUint(10_000_000)))
}

func testAddInvestmentRaisesCap(t *testing.T) {
	store := ledger.NewStore()
	require.NoError(t, store.Create(newParticipant("alice", "", 30)))
	require.NoError(t, store.AddInvestment("alice", num.NewUint(50_000_000)))

	p, _ := store.Get("alice")
	assert.True(t, p.TotalInvested.EQ(num.NewUint(80_000_000)))
	assert.True(t, p.EarningsCap.EQ(num.NewUint(320_000_000)))

	require.ErrorIs(t, store.AddInvestment("nobody", num.NewUint(1)), types.ErrUnknownParticipant)
}

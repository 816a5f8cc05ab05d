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
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

// Pause stops all money-moving operations. Read models stay available.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	e.log.Info("engine paused")
}

// Unpause resumes normal operation.
func (e *Engine) Unpause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	e.log.Info("engine unpaused")
}

// Paused reports whether the engine is accepting operations.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetFeeRecipient changes where future admin fees are attributed. Fees
// already collected stay with the previous recipient.
func (e *Engine) SetFeeRecipient(recipient string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feeRecipient = recipient
	e.log.Info("fee recipient changed", logging.String("recipient", recipient))
}

// SetBlacklisted flags or unflags a participant. Blacklisted participants
// keep their ledger record but are skipped by every distribution and barred
// from initiating operations.
func (e *Engine) SetBlacklisted(id types.ParticipantID, blacklisted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.store.Get(id)
	if !ok {
		return types.ErrUnknownParticipant
	}
	p.Blacklisted = blacklisted
	e.log.Info("blacklist updated",
		logging.String("participant", string(id)),
		logging.Bool("blacklisted", blacklisted))
	return nil
}

// SetClubMember grants or revokes club pool membership.
func (e *Engine) SetClubMember(id types.ParticipantID, member bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.store.Get(id)
	if !ok {
		return types.ErrUnknownParticipant
	}
	p.ClubMember = member
	return nil
}

// GetUserInfo returns the read model for one participant.
func (e *Engine) GetUserInfo(id types.ParticipantID) (*types.UserInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.store.Get(id)
	if !ok {
		return nil, types.ErrUnknownParticipant
	}
	return &types.UserInfo{
		IsRegistered:      true,
		PackageLevel:      p.PackageLevel,
		Balance:           p.WithdrawableBalance.Clone(),
		TotalEarnings:     p.TotalEarned.Clone(),
		TotalInvested:     p.TotalInvested.Clone(),
		EarningsCap:       p.EarningsCap.Clone(),
		IsCapped:          p.IsCapped(),
		DirectReferrals:   p.DirectReferralCount,
		TeamSize:          p.TeamSize,
		Rank:              p.Rank,
		WithdrawalRateBps: e.policy.RateBps(p.DirectReferralCount),
	}, nil
}

// GetPoolBalances returns the current leader, help and club pool balances.
func (e *Engine) GetPoolBalances() (*num.Uint, *num.Uint, *num.Uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pools.Balances()
}

// GetMatrixChildren returns the two direct matrix children of a participant.
// Empty IDs mark open slots.
func (e *Engine) GetMatrixChildren(id types.ParticipantID) (left, right types.ParticipantID, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.store.Get(id)
	if !ok {
		return "", "", types.ErrUnknownParticipant
	}
	return p.LeftChild, p.RightChild, nil
}

// TotalAdminFeesCollected returns the running admin fee tally.
func (e *Engine) TotalAdminFeesCollected() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalAdminFee.Clone()
}

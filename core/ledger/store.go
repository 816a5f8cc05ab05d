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

package ledger

import (
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
)

// Store holds one record per participant. It is pure data, mutated only by
// the engine, and keeps insertion order so every iteration over the ledger
// is deterministic.
type Store struct {
	participants map[types.ParticipantID]*types.Participant
	order        []types.ParticipantID
}

func NewStore() *Store {
	return &Store{
		participants: map[types.ParticipantID]*types.Participant{},
	}
}

// Create adds a fresh participant record. Records are never deleted.
func (s *Store) Create(p *types.Participant) error {
	if _, ok := s.participants[p.ID]; ok {
		return types.ErrAlreadyRegistered
	}
	s.participants[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *Store) Get(id types.ParticipantID) (*types.Participant, bool) {
	p, ok := s.participants[id]
	return p, ok
}

func (s *Store) Has(id types.ParticipantID) bool {
	_, ok := s.participants[id]
	return ok
}

func (s *Store) Len() int {
	return len(s.participants)
}

// All returns every participant in registration order.
func (s *Store) All() []*types.Participant {
	out := make([]*types.Participant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.participants[id])
	}
	return out
}

// SponsorAncestors walks the sponsor chain starting at the participant's
// direct sponsor, up to n levels. The returned slice holds exactly n
// entries; a nil entry marks a missing ancestor at that level.
func (s *Store) SponsorAncestors(id types.ParticipantID, n int) []*types.Participant {
	out := make([]*types.Participant, n)
	cur, ok := s.participants[id]
	for i := 0; i < n && ok; i++ {
		if cur.Sponsor == "" {
			break
		}
		next, found := s.participants[cur.Sponsor]
		if !found {
			break
		}
		out[i] = next
		cur = next
	}
	return out
}

// Credit applies a commission to a participant under the earnings cap.
// It returns the amount actually credited and the clipped remainder, which
// the caller must reroute to the help pool, never discard.
func (s *Store) Credit(id types.ParticipantID, amount *num.Uint) (credited, clipped *num.Uint, err error) {
	p, ok := s.participants[id]
	if !ok {
		return nil, nil, types.ErrUnknownParticipant
	}

	room := p.CapRoom()
	credited = num.Min(amount, room)
	clipped = num.UintZero().Sub(amount, credited)

	p.TotalEarned.AddSum(credited)
	p.WithdrawableBalance.AddSum(credited)
	return credited, clipped, nil
}

// Debit removes from the withdrawable balance.
func (s *Store) Debit(id types.ParticipantID, amount *num.Uint) error {
	p, ok := s.participants[id]
	if !ok {
		return types.ErrUnknownParticipant
	}
	if amount.GT(p.WithdrawableBalance) {
		return types.ErrInsufficientBalance
	}
	p.WithdrawableBalance.Sub(p.WithdrawableBalance, amount)
	return nil
}

// AddInvestment grows the lifetime investment and with it the earnings cap.
// Used on upgrades; forced reinvestments deliberately do not raise the cap.
func (s *Store) AddInvestment(id types.ParticipantID, amount *num.Uint) error {
	p, ok := s.participants[id]
	if !ok {
		return types.ErrUnknownParticipant
	}
	p.TotalInvested.AddSum(amount)
	p.EarningsCap = num.UintZero().Mul(p.TotalInvested, num.NewUint(types.CapMultiplier))
	return nil
}

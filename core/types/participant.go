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
	"time"

	"github.com/timecapsulellc/leadfive/libs/num"
)

// CapMultiplier bounds lifetime earnings to a multiple of lifetime
// investment.
const CapMultiplier = 4

type ParticipantID string

func (p ParticipantID) String() string {
	return string(p)
}

type MatrixSide uint8

const (
	MatrixSideLeft MatrixSide = iota
	MatrixSideRight
)

func (s MatrixSide) String() string {
	if s == MatrixSideLeft {
		return "left"
	}
	return "right"
}

type LeaderRank uint8

const (
	LeaderRankNone LeaderRank = iota
	LeaderRankShiningStar
	LeaderRankSilverStar
)

const (
	// Thresholds for the two leadership tiers, straight from the
	// presentation material.
	ShiningStarMinTeamSize        = 250
	ShiningStarMinDirectReferrals = 10
	SilverStarMinTeamSize         = 500
)

func (r LeaderRank) String() string {
	switch r {
	case LeaderRankShiningStar:
		return "Shining Star"
	case LeaderRankSilverStar:
		return "Silver Star"
	default:
		return "none"
	}
}

// RankFor derives the leadership classification from the team counters.
// Silver Star outranks Shining Star.
func RankFor(teamSize, directReferrals uint64) LeaderRank {
	if teamSize >= SilverStarMinTeamSize {
		return LeaderRankSilverStar
	}
	if teamSize >= ShiningStarMinTeamSize && directReferrals >= ShiningStarMinDirectReferrals {
		return LeaderRankShiningStar
	}
	return LeaderRankNone
}

// Participant is the ledger record for one registered address. Created on
// first successful registration, mutated by every downstream event crediting
// it, never deleted.
type Participant struct {
	ID      ParticipantID
	Sponsor ParticipantID // empty only for the root

	PackageLevel uint32 // 1..8, upgrade-only

	TotalInvested       *num.Uint
	TotalEarned         *num.Uint
	WithdrawableBalance *num.Uint
	EarningsCap         *num.Uint

	DirectReferralCount uint64
	TeamSize            uint64

	// binary matrix links. An empty child ID means the slot is free.
	Parent     ParticipantID
	Side       MatrixSide // which slot of Parent this participant occupies
	LeftChild  ParticipantID
	RightChild ParticipantID

	LeftVolume  *num.Uint
	RightVolume *num.Uint

	Rank        LeaderRank
	Blacklisted bool
	ClubMember  bool

	JoinedAt time.Time
}

// NewParticipant returns a ledger record for a fresh registration paying the
// given package price.
func NewParticipant(id, sponsor ParticipantID, tier uint32, price *num.Uint, now time.Time) *Participant {
	return &Participant{
		ID:                  id,
		Sponsor:             sponsor,
		PackageLevel:        tier,
		TotalInvested:       price.Clone(),
		TotalEarned:         num.UintZero(),
		WithdrawableBalance: num.UintZero(),
		EarningsCap:         num.UintZero().Mul(price, num.NewUint(CapMultiplier)),
		LeftVolume:          num.UintZero(),
		RightVolume:         num.UintZero(),
		JoinedAt:            now,
	}
}

// IsCapped reports whether lifetime earnings have reached the cap.
func (p *Participant) IsCapped() bool {
	return p.TotalEarned.GTE(p.EarningsCap)
}

// CapRoom returns the remaining headroom under the earnings cap.
func (p *Participant) CapRoom() *num.Uint {
	if p.TotalEarned.GTE(p.EarningsCap) {
		return num.UintZero()
	}
	return num.UintZero().Sub(p.EarningsCap, p.TotalEarned)
}

// MatrixVolume is the cumulative investment volume of both legs, the weight
// used for leader pool shares.
func (p *Participant) MatrixVolume() *num.Uint {
	return num.Sum(p.LeftVolume, p.RightVolume)
}

// RecomputeRank refreshes the derived leadership classification.
func (p *Participant) RecomputeRank() {
	p.Rank = RankFor(p.TeamSize, p.DirectReferralCount)
}

// UserInfo is the canonical read model handed back to the wallet and
// dashboard layers.
type UserInfo struct {
	IsRegistered      bool
	PackageLevel      uint32
	Balance           *num.Uint
	TotalEarnings     *num.Uint
	TotalInvested     *num.Uint
	EarningsCap       *num.Uint
	IsCapped          bool
	DirectReferrals   uint64
	TeamSize          uint64
	Rank              LeaderRank
	WithdrawalRateBps uint64
}

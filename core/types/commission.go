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

import "github.com/timecapsulellc/leadfive/libs/num"

type BonusType uint8

const (
	BonusTypeDirect BonusType = iota
	BonusTypeLevel
	BonusTypeUpline
	BonusTypeLeaderPool
	BonusTypeHelpPool
	BonusTypeClubPool
)

func (b BonusType) String() string {
	switch b {
	case BonusTypeDirect:
		return "direct"
	case BonusTypeLevel:
		return "level"
	case BonusTypeUpline:
		return "upline"
	case BonusTypeLeaderPool:
		return "leader-pool"
	case BonusTypeHelpPool:
		return "help-pool"
	default:
		return "club-pool"
	}
}

// CommissionEvent is the unit of work driving one atomic engine pass. It is
// ephemeral, never persisted.
type CommissionEvent struct {
	Payer        ParticipantID
	PackageLevel uint32
	GrossAmount  *num.Uint
	IsUpgrade    bool
	// IsReinvestment marks the synthetic event produced by the forced
	// reinvestment slice of a withdrawal.
	IsReinvestment bool
}

// Transfer is one planned ledger credit produced by the splitter, still
// subject to the earnings cap.
type Transfer struct {
	Recipient ParticipantID
	Amount    *num.Uint
	Bonus     BonusType
}

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

package events

import (
	"context"

	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
)

type BonusDistributed struct {
	*Base
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	// Clipped is the slice of the credit rerouted to the help pool by
	// the earnings cap.
	Clipped   string `json:"clipped,omitempty"`
	BonusType string `json:"bonusType"`
}

func NewBonusDistributedEvent(ctx context.Context, recipient types.ParticipantID, amount, clipped *num.Uint, bonus types.BonusType) *BonusDistributed {
	e := &BonusDistributed{
		Base:      newBase(ctx, BonusDistributedEvent),
		Recipient: recipient.String(),
		Amount:    amount.String(),
		BonusType: bonus.String(),
	}
	if clipped != nil && !clipped.IsZero() {
		e.Clipped = clipped.String()
	}
	return e
}

type AdminFeeCollected struct {
	*Base
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func NewAdminFeeCollectedEvent(ctx context.Context, recipient string, amount *num.Uint) *AdminFeeCollected {
	return &AdminFeeCollected{
		Base:      newBase(ctx, AdminFeeCollectedEvent),
		Recipient: recipient,
		Amount:    amount.String(),
	}
}

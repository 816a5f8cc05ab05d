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
	"time"

	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
)

type Withdrawal struct {
	*Base
	Participant string    `json:"participant"`
	Requested   string    `json:"requested"`
	PaidOut     string    `json:"paidOut"`
	Reinvested  string    `json:"reinvested"`
	RateBps     uint64    `json:"rateBps"`
	At          time.Time `json:"at"`
}

func NewWithdrawalEvent(ctx context.Context, id types.ParticipantID, requested, paidOut, reinvested *num.Uint, rateBps uint64, at time.Time) *Withdrawal {
	return &Withdrawal{
		Base:        newBase(ctx, WithdrawalEvent),
		Participant: id.String(),
		Requested:   requested.String(),
		PaidOut:     paidOut.String(),
		Reinvested:  reinvested.String(),
		RateBps:     rateBps,
		At:          at,
	}
}

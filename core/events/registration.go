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

type UserRegistered struct {
	*Base
	Participant  string    `json:"participant"`
	Sponsor      string    `json:"sponsor,omitempty"`
	PackageLevel uint32    `json:"packageLevel"`
	Amount       string    `json:"amount"`
	Parent       string    `json:"parent,omitempty"`
	Side         string    `json:"side,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func NewUserRegisteredEvent(ctx context.Context, p *types.Participant, amount *num.Uint) *UserRegistered {
	return &UserRegistered{
		Base:         newBase(ctx, UserRegisteredEvent),
		Participant:  p.ID.String(),
		Sponsor:      p.Sponsor.String(),
		PackageLevel: p.PackageLevel,
		Amount:       amount.String(),
		Parent:       p.Parent.String(),
		Side:         p.Side.String(),
		RegisteredAt: p.JoinedAt,
	}
}

type PackageUpgraded struct {
	*Base
	Participant string `json:"participant"`
	FromLevel   uint32 `json:"fromLevel"`
	ToLevel     uint32 `json:"toLevel"`
	Amount      string `json:"amount"`
}

func NewPackageUpgradedEvent(ctx context.Context, id types.ParticipantID, from, to uint32, amount *num.Uint) *PackageUpgraded {
	return &PackageUpgraded{
		Base:        newBase(ctx, PackageUpgradedEvent),
		Participant: id.String(),
		FromLevel:   from,
		ToLevel:     to,
		Amount:      amount.String(),
	}
}

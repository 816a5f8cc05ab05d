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

type PoolDistributed struct {
	*Base
	Pool       string    `json:"pool"`
	Amount     string    `json:"amount"`
	Recipients int       `json:"recipients"`
	At         time.Time `json:"at"`
}

func NewPoolDistributedEvent(ctx context.Context, pool types.PoolType, amount *num.Uint, recipients int, at time.Time) *PoolDistributed {
	return &PoolDistributed{
		Base:       newBase(ctx, PoolDistributedEvent),
		Pool:       pool.String(),
		Amount:     amount.String(),
		Recipients: recipients,
		At:         at,
	}
}

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

type PoolType uint8

const (
	PoolTypeLeader PoolType = iota
	PoolTypeHelp
	PoolTypeClub
)

// AllPoolTypes in distribution order.
var AllPoolTypes = []PoolType{PoolTypeLeader, PoolTypeHelp, PoolTypeClub}

func (p PoolType) String() string {
	switch p {
	case PoolTypeLeader:
		return "leader"
	case PoolTypeHelp:
		return "help"
	default:
		return "club"
	}
}

// Pool is one of the three shared reward pools. Balance only grows between
// distribution ticks and resets to the undistributed remainder at a tick.
type Pool struct {
	Type             PoolType
	Balance          *num.Uint
	LastDistribution time.Time
	Interval         time.Duration
	TotalDistributed *num.Uint
}

func NewPool(t PoolType, interval time.Duration, now time.Time) *Pool {
	return &Pool{
		Type:             t,
		Balance:          num.UintZero(),
		LastDistribution: now,
		Interval:         interval,
		TotalDistributed: num.UintZero(),
	}
}

// Due reports whether the distribution interval has elapsed.
func (p *Pool) Due(now time.Time) bool {
	return !now.Before(p.LastDistribution.Add(p.Interval))
}

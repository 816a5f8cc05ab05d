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
	"fmt"
	"sync/atomic"
)

// Type is the type of domain event.
type Type int

const (
	// All is used by subscribers that want the full stream.
	All Type = iota
	UserRegisteredEvent
	PackageUpgradedEvent
	BonusDistributedEvent
	WithdrawalEvent
	PoolDistributedEvent
	AdminFeeCollectedEvent
)

var eventStrings = map[Type]string{
	All:                    "ALL",
	UserRegisteredEvent:    "UserRegistered",
	PackageUpgradedEvent:   "PackageUpgraded",
	BonusDistributedEvent:  "BonusDistributed",
	WithdrawalEvent:        "Withdrawal",
	PoolDistributedEvent:   "PoolDistributed",
	AdminFeeCollectedEvent: "AdminFeeCollected",
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// Event is the interface all domain events implement. Events are emitted by
// the engine after its transaction commits, never awaited synchronously.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
	Sequence() uint64
	SetSequenceID(s uint64)
}

type traceIDKey struct{}

var tracePart uint64

// Base common denominator all events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     uint64
	et      Type
}

func newBase(ctx context.Context, t Type) *Base {
	traceID, ok := ctx.Value(traceIDKey{}).(string)
	if !ok || traceID == "" {
		traceID = fmt.Sprintf("trace-%d", atomic.AddUint64(&tracePart, 1))
		ctx = context.WithValue(ctx, traceIDKey{}, traceID)
	}
	return &Base{
		ctx:     ctx,
		traceID: traceID,
		et:      t,
	}
}

// WithTraceID attaches an externally supplied trace ID to the context so all
// events of one engine pass share it.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the... traceID obviously.
func (b Base) TraceID() string {
	return b.traceID
}

// Sequence returns event sequence number.
func (b Base) Sequence() uint64 {
	return b.seq
}

// SetSequenceID is used by the broker to set a unique position in the stream
// for the event.
func (b *Base) SetSequenceID(s uint64) {
	b.seq = s
}

// Context returns the context of the event.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

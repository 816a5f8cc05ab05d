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

package broker

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/timecapsulellc/leadfive/core/events"
	"github.com/timecapsulellc/leadfive/logging"
)

// Subscriber receives events pushed through the broker, filtered on the
// event types it declares. A subscriber returning no types gets everything.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks github.com/timecapsulellc/leadfive/core/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

type subscription struct {
	Subscriber
}

// Broker fans events out to registered subscribers, synchronously and in
// send order. Every event gets a monotonically increasing sequence number
// before delivery, so subscribers can rely on a total order.
type Broker struct {
	ctx context.Context
	log *logging.Logger

	mu    sync.Mutex
	tSubs map[events.Type]map[int]*subscription
	subs  map[int]subscription
	keys  []int
	seq   uint64

	ssender *SocketSender
}

// New creates a broker, optionally wiring up a socket sender to stream all
// events to a remote consumer.
func New(ctx context.Context, log *logging.Logger, config Config) (*Broker, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	b := &Broker{
		ctx:   ctx,
		log:   log,
		tSubs: map[events.Type]map[int]*subscription{},
		subs:  map[int]subscription{},
		keys:  []int{},
	}

	if config.Socket.Enabled {
		sender, err := NewSocketSender(log, config.Socket)
		if err != nil {
			return nil, err
		}
		b.ssender = sender
	}

	return b, nil
}

// Send delivers a single event to all matching subscribers.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch delivers a batch of events, preserving order within the batch.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	for _, e := range evts {
		b.seq++
		e.SetSequenceID(b.seq)
	}
	byType := map[events.Type][]*subscription{}
	for _, e := range evts {
		t := e.Type()
		if _, ok := byType[t]; ok {
			continue
		}
		byType[t] = b.getSubsByType(t)
	}
	b.mu.Unlock()

	for _, e := range evts {
		for _, sub := range byType[e.Type()] {
			sub.Push(e)
		}
		if b.ssender != nil {
			if err := b.ssender.Send(e); err != nil {
				b.log.Error("failed to stream event",
					logging.String("type", e.Type().String()),
					logging.Error(err))
			}
		}
	}
}

func (b *Broker) getSubsByType(t events.Type) []*subscription {
	subs, ok := b.tSubs[t]
	if !ok {
		subs = b.tSubs[events.All]
	}
	// deliver in subscription order so fan-out is deterministic
	keys := maps.Keys(subs)
	slices.Sort(keys)
	cpy := make([]*subscription, 0, len(keys))
	for _, k := range keys {
		cpy = append(cpy, subs[k])
	}
	return cpy
}

// Subscribe registers a subscriber and returns its key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := b.subscribe(s)
	s.SetID(k)
	return k
}

func (b *Broker) subscribe(s Subscriber) int {
	k := b.getKey()
	sub := subscription{Subscriber: s}
	b.subs[k] = sub
	types := s.Types()
	isAll := len(types) == 0
	for _, t := range types {
		if t == events.All {
			isAll = true
			break
		}
	}
	if isAll {
		types = []events.Type{events.All}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
			if !isAll {
				// new typed map picks up the existing catch-all subscribers
				for ak, as := range b.tSubs[events.All] {
					b.tSubs[t][ak] = as
				}
			}
		}
		b.tSubs[t][k] = &sub
	}
	if isAll {
		for t := range b.tSubs {
			if t != events.All {
				b.tSubs[t][k] = &sub
			}
		}
	}
	return k
}

// Unsubscribe removes a subscriber from the broker. The key is recycled.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.subs[k]
	if !ok {
		return
	}
	types := s.Types()
	for _, t := range types {
		if t == events.All {
			types = nil
			break
		}
	}
	if len(types) == 0 {
		for _, v := range b.tSubs {
			delete(v, k)
		}
	} else {
		for _, t := range types {
			delete(b.tSubs[t], k)
		}
	}
	delete(b.subs, k)
	b.keys = append(b.keys, k)
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:]
		return k
	}
	return len(b.subs) + 1 // avoid the zero value
}

// Close shuts the socket sender down if one was configured.
func (b *Broker) Close() error {
	if b.ssender != nil {
		return b.ssender.Close()
	}
	return nil
}

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
	"encoding/json"
	"fmt"

	"github.com/timecapsulellc/leadfive/core/events"
	"github.com/timecapsulellc/leadfive/logging"

	"go.nanomsg.org/mangos/v3/protocol"
	"go.nanomsg.org/mangos/v3/protocol/push"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

// SocketSender streams every event handled by the broker over a push socket
// to a remote consumer, typically a reporting or audit service.
type SocketSender struct {
	log  *logging.Logger
	sock protocol.Socket
}

type eventEnvelope struct {
	Type     string       `json:"type"`
	Sequence uint64       `json:"sequence"`
	TraceID  string       `json:"trace_id"`
	Data     events.Event `json:"data"`
}

func NewSocketSender(log *logging.Logger, config SocketConfig) (*SocketSender, error) {
	sock, err := push.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create new socket: %w", err)
	}

	addr := fmt.Sprintf("%s://%s", config.TransportType, config.Address())
	if err := sock.Dial(addr); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	log.Info("event stream connected", logging.String("address", addr))

	return &SocketSender{
		log:  log,
		sock: sock,
	}, nil
}

func (s *SocketSender) Send(e events.Event) error {
	buf, err := json.Marshal(eventEnvelope{
		Type:     e.Type().String(),
		Sequence: e.Sequence(),
		TraceID:  e.TraceID(),
		Data:     e,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.sock.Send(buf); err != nil {
		return fmt.Errorf("failed to send on socket: %w", err)
	}
	return nil
}

func (s *SocketSender) Close() error {
	return s.sock.Close()
}

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
	"fmt"

	"github.com/timecapsulellc/leadfive/config/encoding"
	"github.com/timecapsulellc/leadfive/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker.
type Config struct {
	Level  encoding.LogLevel `long:"log-level"`
	Socket SocketConfig      `group:"Socket" namespace:"socket"`
}

type SocketConfig struct {
	Enabled       encoding.Bool `long:"enabled" description:"stream events to a remote consumer"`
	IP            string        `long:"ip" description:" "`
	Port          int           `long:"port" description:" "`
	TransportType string        `long:"transport-type"`
}

func (s SocketConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Socket: SocketConfig{
			Enabled:       false,
			IP:            "127.0.0.1",
			Port:          3005,
			TransportType: "tcp",
		},
	}
}

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

package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/timecapsulellc/leadfive/core/broker"
	"github.com/timecapsulellc/leadfive/core/compensation"
	"github.com/timecapsulellc/leadfive/core/pools"
	"github.com/timecapsulellc/leadfive/logging"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging      logging.Config      `group:"Logging" namespace:"logging"`
	Broker       broker.Config       `group:"Broker" namespace:"broker"`
	Pools        pools.Config        `group:"Pools" namespace:"pools"`
	Compensation compensation.Config `group:"Compensation" namespace:"compensation"`
}

// NewDefaultConfig returns the default configuration for every package.
func NewDefaultConfig() Config {
	return Config{
		Logging:      logging.NewDefaultConfig(),
		Broker:       broker.NewDefaultConfig(),
		Pools:        pools.NewDefaultConfig(),
		Compensation: compensation.NewDefaultConfig(),
	}
}

// Read loads the configuration file from the given root path, layered over
// the defaults so a partial file is valid.
func Read(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, configFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write serialises the configuration into the given root path.
func Write(rootPath string, cfg Config) error {
	buf := bytes.Buffer{}
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(rootPath, configFileName), buf.Bytes(), 0o644)
}

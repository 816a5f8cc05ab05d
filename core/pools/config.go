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

package pools

import (
	"time"

	"github.com/timecapsulellc/leadfive/config/encoding"
	"github.com/timecapsulellc/leadfive/logging"
)

// HelpPoolStrategy selects how the help pool balance is shared out.
type HelpPoolStrategy string

const (
	// HelpPoolEqualShare gives every eligible participant the same cut.
	HelpPoolEqualShare HelpPoolStrategy = "equal-share"
	// HelpPoolInvestmentWeighted weighs the cut by total invested.
	HelpPoolInvestmentWeighted HelpPoolStrategy = "investment-weighted"
)

// Config represents the configuration of the pools engine.
type Config struct {
	Level            encoding.LogLevel `long:"log-level"`
	LeaderInterval   encoding.Duration `long:"leader-interval"`
	HelpInterval     encoding.Duration `long:"help-interval"`
	ClubInterval     encoding.Duration `long:"club-interval"`
	HelpPoolStrategy HelpPoolStrategy  `long:"help-pool-strategy"`
}

// NewDefaultConfig creates an instance of the pools engine configuration
// with the production distribution cadence.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		LeaderInterval:   encoding.Duration{Duration: 7 * 24 * time.Hour},
		HelpInterval:     encoding.Duration{Duration: 7 * 24 * time.Hour},
		ClubInterval:     encoding.Duration{Duration: 30 * 24 * time.Hour},
		HelpPoolStrategy: HelpPoolEqualShare,
	}
}

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
	"os"
	"path/filepath"
)

// Empty is the top level go-flags group holding nothing; subcommands carry
// their own flags.
type Empty struct{}

// RootPathFlag is embedded by subcommands operating on the configuration
// root directory.
type RootPathFlag struct {
	RootPath string `short:"r" long:"root-path" description:"Path of the root directory in which the configuration will be located"`
}

func NewRootPathFlag() RootPathFlag {
	return RootPathFlag{
		RootPath: DefaultRootDir(),
	}
}

// DefaultRootDir is the default configuration directory, under the user's
// home directory.
func DefaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leadfive"
	}
	return filepath.Join(home, ".leadfive")
}

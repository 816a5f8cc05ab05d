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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/timecapsulellc/leadfive/config"
	"github.com/timecapsulellc/leadfive/logging"
)

type InitCmd struct {
	config.RootPathFlag

	Force bool `short:"f" long:"force" description:"Erase any existing configuration at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	log := logging.NewDevLogger()
	defer log.AtExit()

	if _, err := os.Stat(opts.RootPath); err == nil {
		if !opts.Force {
			return fmt.Errorf("configuration already exists at `%s`, re-run with -f to overwrite", opts.RootPath)
		}
		log.Info("removing existing configuration", logging.String("path", opts.RootPath))
		os.RemoveAll(opts.RootPath)
	}

	if err := os.MkdirAll(opts.RootPath, 0o755); err != nil {
		return err
	}
	if err := config.Write(opts.RootPath, config.NewDefaultConfig()); err != nil {
		return err
	}

	log.Info("configuration generated successfully",
		logging.String("path", opts.RootPath))
	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{
		RootPathFlag: config.NewRootPathFlag(),
	}
	_, err := parser.AddCommand("init", "Generate the default configuration", "Generate the minimal configuration required to start", &initCmd)
	return err
}

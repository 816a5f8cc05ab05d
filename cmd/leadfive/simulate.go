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
	"math/rand"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/timecapsulellc/leadfive/config"
	"github.com/timecapsulellc/leadfive/core/broker"
	"github.com/timecapsulellc/leadfive/core/compensation"
	"github.com/timecapsulellc/leadfive/core/events"
	"github.com/timecapsulellc/leadfive/core/pools"
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

type SimulateCmd struct {
	config.RootPathFlag

	Participants int   `long:"participants" default:"50" description:"Number of participants to register"`
	Days         int   `long:"days" default:"30" description:"Number of simulated days"`
	Seed         int64 `long:"seed" default:"42" description:"Seed for the deterministic random source"`
}

var simulateCmd SimulateCmd

// simClock is the deterministic time service driving the simulation.
type simClock struct {
	now time.Time
}

func (c *simClock) GetTimeNow() time.Time { return c.now }

func (c *simClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// eventCounter tallies every event type flowing through the broker.
type eventCounter struct {
	id     int
	counts map[events.Type]int
}

func (s *eventCounter) Push(evts ...events.Event) {
	for _, e := range evts {
		s.counts[e.Type()]++
	}
}

func (s *eventCounter) Types() []events.Type { return nil }
func (s *eventCounter) SetID(id int)         { s.id = id }
func (s *eventCounter) ID() int              { return s.id }

func (opts *SimulateCmd) Execute(_ []string) error {
	cfg, err := config.Read(opts.RootPath)
	if err != nil {
		def := config.NewDefaultConfig()
		cfg = &def
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	ctx := context.Background()
	clock := &simClock{now: time.Unix(1_700_000_000, 0)}
	rng := rand.New(rand.NewSource(opts.Seed))

	brk, err := broker.New(ctx, log, cfg.Broker)
	if err != nil {
		return err
	}
	defer brk.Close()

	counter := &eventCounter{counts: map[events.Type]int{}}
	brk.Subscribe(counter)

	poolsEngine := pools.NewEngine(log, cfg.Pools, clock.GetTimeNow())
	engine, err := compensation.NewEngine(log, cfg.Compensation, brk, clock, poolsEngine, types.DefaultPackages())
	if err != nil {
		return err
	}

	catalog := types.DefaultPackages()
	registered := []types.ParticipantID{types.ParticipantID(cfg.Compensation.RootID)}
	next := 0

	perDay := opts.Participants/opts.Days + 1
	for day := 0; day < opts.Days; day++ {
		for i := 0; i < perDay && next < opts.Participants; i++ {
			next++
			id := types.ParticipantID(fmt.Sprintf("user-%04d", next))
			sponsor := registered[rng.Intn(len(registered))]
			// stick to the lower tiers, as registrations do in the field
			tier := catalog[rng.Intn(len(catalog))/2].Tier
			if err := engine.Register(ctx, id, sponsor, tier); err != nil {
				return fmt.Errorf("registration failed for %s: %w", id, err)
			}
			registered = append(registered, id)
		}

		// a few random withdrawals per day
		for i := 0; i < 3; i++ {
			id := registered[rng.Intn(len(registered))]
			info, err := engine.GetUserInfo(id)
			if err != nil || info.Balance.IsZero() {
				continue
			}
			amount := num.UintZero().Div(info.Balance, num.NewUint(2))
			if amount.IsZero() {
				continue
			}
			if err := engine.Withdraw(ctx, id, amount); err != nil {
				return fmt.Errorf("withdrawal failed for %s: %w", id, err)
			}
		}

		// the occasional upgrade
		if day%5 == 4 {
			id := registered[rng.Intn(len(registered))]
			if info, err := engine.GetUserInfo(id); err == nil && info.PackageLevel < uint32(len(catalog)) {
				if err := engine.Upgrade(ctx, id, info.PackageLevel+1); err != nil {
					return fmt.Errorf("upgrade failed for %s: %w", id, err)
				}
			}
		}

		clock.advance(24 * time.Hour)
		engine.OnTick(ctx, clock.GetTimeNow())
	}

	leader, help, club := engine.GetPoolBalances()
	fmt.Printf("simulation complete after %d days\n", opts.Days)
	fmt.Printf("  participants:     %d\n", len(registered))
	fmt.Printf("  admin fees:       %s\n", engine.TotalAdminFeesCollected())
	fmt.Printf("  leader pool:      %s\n", leader)
	fmt.Printf("  help pool:        %s\n", help)
	fmt.Printf("  club pool:        %s\n", club)
	seen := maps.Keys(counter.counts)
	slices.Sort(seen)
	for _, t := range seen {
		fmt.Printf("  %-24s %d\n", t.String(), counter.counts[t])
	}
	return nil
}

func Simulate(_ context.Context, parser *flags.Parser) error {
	simulateCmd = SimulateCmd{
		RootPathFlag: config.NewRootPathFlag(),
	}
	_, err := parser.AddCommand("simulate", "Run a deterministic simulation", "Register, upgrade and withdraw against an in-memory engine with a seeded random source", &simulateCmd)
	return err
}

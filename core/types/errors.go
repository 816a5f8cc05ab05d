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

import "errors"

// Error taxonomy. Every error is terminal for the triggering event; the
// engine guarantees a rejected event leaves the ledger untouched.
var (
	ErrInvalidSponsor      = errors.New("sponsor is not a registered, active participant")
	ErrAlreadyPlaced       = errors.New("participant already holds a matrix slot")
	ErrAlreadyRegistered   = errors.New("participant is already registered")
	ErrUnknownParticipant  = errors.New("unknown participant")
	ErrUnknownPackage      = errors.New("no catalog entry for package level")
	ErrInvalidPackage      = errors.New("invalid package catalog entry")
	ErrNotAnUpgrade        = errors.New("package level must be strictly higher than the current one")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("requested amount exceeds withdrawable balance")
	ErrTooEarly            = errors.New("distribution interval has not elapsed")
	ErrPaused              = errors.New("engine is paused")
	ErrBlacklisted         = errors.New("participant is blacklisted")
)

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

package matrix

import (
	"github.com/timecapsulellc/leadfive/core/types"
	"github.com/timecapsulellc/leadfive/libs/num"
	"github.com/timecapsulellc/leadfive/logging"
)

const namedLogger = "matrix"

// Store gives the resolver access to the participant ledger. All mutation
// happens on the records themselves, inside the engine's single-writer
// transaction.
type Store interface {
	Get(id types.ParticipantID) (*types.Participant, bool)
	Len() int
}

// Engine places new participants into the binary matrix and maintains the
// ancestor volume counters. Placement is fully deterministic: for a fixed
// sequence of registrations the resulting tree shape is always the same.
type Engine struct {
	log   *logging.Logger
	store Store
}

func NewEngine(log *logging.Logger, store Store) *Engine {
	log = log.Named(namedLogger)
	return &Engine{
		log:   log,
		store: store,
	}
}

// Place finds the concrete slot for a newcomer sponsored by sponsor, links
// it in, and walks the parent chain to the root crediting team size and leg
// volume with the package price. The newcomer record must already exist in
// the store.
func (e *Engine) Place(sponsor types.ParticipantID, newcomer *types.Participant, price *num.Uint) (types.ParticipantID, types.MatrixSide, error) {
	if newcomer.Parent != "" {
		return "", 0, types.ErrAlreadyPlaced
	}

	sp, ok := e.store.Get(sponsor)
	if !ok || sp.Blacklisted {
		return "", 0, types.ErrInvalidSponsor
	}

	parent, side := e.findSlot(sp)

	newcomer.Parent = parent.ID
	newcomer.Side = side
	if side == types.MatrixSideLeft {
		parent.LeftChild = newcomer.ID
	} else {
		parent.RightChild = newcomer.ID
	}

	if e.log.IsDebug() {
		e.log.Debug("matrix slot assigned",
			logging.String("participant", newcomer.ID.String()),
			logging.String("parent", parent.ID.String()),
			logging.String("side", side.String()))
	}

	e.creditAncestors(newcomer, price, true)
	return parent.ID, side, nil
}

// AddVolume propagates an additional investment (upgrade or reinvestment)
// from an already-placed participant up the parent chain. Team sizes are
// untouched.
func (e *Engine) AddVolume(id types.ParticipantID, amount *num.Uint) error {
	p, ok := e.store.Get(id)
	if !ok {
		return types.ErrUnknownParticipant
	}
	e.creditAncestors(p, amount, false)
	return nil
}

// findSlot returns the first free slot under the sponsor: its own left then
// right slot, then a breadth-first spillover search visiting the
// weaker-volume child first, left on equal volume.
func (e *Engine) findSlot(sponsor *types.Participant) (*types.Participant, types.MatrixSide) {
	queue := []*types.Participant{sponsor}
	// the tree holds at most Len() nodes, so the search is bounded.
	for steps := e.store.Len() + 1; len(queue) > 0 && steps > 0; steps-- {
		node := queue[0]
		queue = queue[1:]

		if node.LeftChild == "" {
			return node, types.MatrixSideLeft
		}
		if node.RightChild == "" {
			return node, types.MatrixSideRight
		}

		left, _ := e.store.Get(node.LeftChild)
		right, _ := e.store.Get(node.RightChild)
		if right.MatrixVolume().LT(left.MatrixVolume()) {
			queue = append(queue, right, left)
		} else {
			queue = append(queue, left, right)
		}
	}

	// unreachable: a finite binary tree always has a free slot.
	e.log.Panic("matrix spillover search exhausted the tree",
		logging.String("sponsor", sponsor.ID.String()))
	return nil, 0
}

// creditAncestors walks from the given node to the root. The walk is
// iterative and bounded by the ledger size.
func (e *Engine) creditAncestors(from *types.Participant, amount *num.Uint, countTeam bool) {
	cur := from
	for steps := e.store.Len() + 1; cur.Parent != "" && steps > 0; steps-- {
		parent, ok := e.store.Get(cur.Parent)
		if !ok {
			e.log.Panic("matrix parent link points at unknown participant",
				logging.String("participant", cur.ID.String()),
				logging.String("parent", cur.Parent.String()))
		}
		if cur.Side == types.MatrixSideLeft {
			parent.LeftVolume.AddSum(amount)
		} else {
			parent.RightVolume.AddSum(amount)
		}
		if countTeam {
			parent.TeamSize++
			parent.RecomputeRank()
		}
		cur = parent
	}
}

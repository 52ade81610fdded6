// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package crossfield

import (
	"errors"

	"github.com/erigontech/treecrdt-lib/atom"
)

// ErrManagerUnavailable is returned when a move endpoint needs to coordinate
// with a sibling field but the caller supplied no Manager (spec.md §7 kind
// 2: "cross-field unavailability").
var ErrManagerUnavailable = errors.New("crossfield: manager required for cross-field move coordination but none supplied")

// Key addresses one entry a Manager tracks: which sibling field (Target),
// which revision authored the entry, and the LocalId range it covers.
type Key struct {
	Target   Target
	Revision atom.RevisionTag
	Local    atom.LocalId
	Count    int
}

// Manager is the narrow hook the rebaser algebra uses to coordinate node
// identity with sibling fields during cross-field moves (C6, spec.md §6).
// The optional-field core only calls into it when a move endpoint names a
// counterpart in another field; when an operation involves no cross-field
// interaction, no method here is invoked at all (spec.md §9).
type Manager interface {
	// Get retrieves the value a sibling field previously stored for the
	// given key range, reporting false if nothing is stored there.
	Get(target Target, revision atom.RevisionTag, id atom.LocalId, count int) (value any, ok bool)

	// Set records value against the given key range, for a later Get by
	// the same or a different field.
	Set(target Target, revision atom.RevisionTag, id atom.LocalId, count int, value any)

	// OnMoveIn notifies the manager that id now resides in this field,
	// having moved in from elsewhere.
	OnMoveIn(id atom.LocalId)

	// MoveKey re-addresses every entry filed under oldKey to newKey. Used
	// when a rebase relabels an id that a prior Set call already
	// referenced.
	MoveKey(oldKey, newKey Key)
}

// FailingManager panics on every call. Per spec.md §9 ("implementations for
// tests can be 'fail on any call'"), it is the right default for tests that
// assert no cross-field interaction occurs for a given changeset — any call
// at all is a test failure, not a recoverable error.
type FailingManager struct{}

func (FailingManager) Get(Target, atom.RevisionTag, atom.LocalId, int) (any, bool) {
	panic("crossfield: FailingManager.Get called; this test path must not cross fields")
}

func (FailingManager) Set(Target, atom.RevisionTag, atom.LocalId, int, any) {
	panic("crossfield: FailingManager.Set called; this test path must not cross fields")
}

func (FailingManager) OnMoveIn(atom.LocalId) {
	panic("crossfield: FailingManager.OnMoveIn called; this test path must not cross fields")
}

func (FailingManager) MoveKey(Key, Key) {
	panic("crossfield: FailingManager.MoveKey called; this test path must not cross fields")
}

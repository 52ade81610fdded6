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

package optional

import "github.com/erigontech/treecrdt-lib/atom"

// Editor builds the three primitive changesets a host ever originates by
// hand (C3, spec.md §4.3); every other changeset in the system is produced
// by Compose, Invert, or Rebase operating on editor output. It holds no
// state of its own — fill and detach ids must already be minted by the
// caller's idalloc.Allocator before calling into it.
type Editor[TChild any] struct{}

// NewEditor returns the (stateless) editor for fields whose child edits have
// type TChild.
func NewEditor[TChild any]() Editor[TChild] { return Editor[TChild]{} }

// Set fills the field with fill, detaching the prior occupant (if any) to
// detach. wasEmpty records whether the field held nothing going in.
func (Editor[TChild]) Set(wasEmpty bool, fill, detach atom.ChangeAtomId) Changeset[TChild] {
	return Changeset[TChild]{
		InputEmpty:  wasEmpty,
		OutputEmpty: false,
		ValueReplace: &ValueReplace{
			IsEmpty: wasEmpty,
			Dst:     detach,
			Src:     AttachSource(fill),
		},
	}
}

// Clear empties the field, detaching the prior occupant (if any) to detach.
func (Editor[TChild]) Clear(wasEmpty bool, detach atom.ChangeAtomId) Changeset[TChild] {
	return Changeset[TChild]{
		InputEmpty:  wasEmpty,
		OutputEmpty: true,
		ValueReplace: &ValueReplace{
			IsEmpty: wasEmpty,
			Dst:     detach,
			Src:     AbsentSource(),
		},
	}
}

// BuildChildChange wraps an edit to the field's current occupant. It only
// makes sense when the field is non-empty on both sides, since it neither
// attaches nor detaches anything itself.
func (Editor[TChild]) BuildChildChange(change TChild) Changeset[TChild] {
	return Changeset[TChild]{
		InputEmpty:  false,
		OutputEmpty: false,
		ChildChanges: []ChildChangePair[TChild]{
			{Location: SelfLocation(), Change: change},
		},
	}
}

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

// NodeChangeComposer combines two opaque child edits applied back-to-back
// (b after a) into one, the same way Compose combines two Changesets.
type NodeChangeComposer[TChild any] func(a, b TChild) TChild

// NodeChangeRebaser moves child onto a context where base has already
// applied, the same way Rebase moves a Changeset over a concurrent one.
type NodeChangeRebaser[TChild any] func(child, base TChild) TChild

// NodeChangeInverter produces the opposite edit of child. isRollback
// mirrors Invert's own rollback/undo distinction: true asks for a change
// that fully cancels child's effect when composed on top of it (used when
// reverting a local edit before it is ever shared), false asks only for a
// change whose visible delta cancels child's (used when publishing a
// public "undo" that a concurrent peer may have already raced past).
type NodeChangeInverter[TChild any] func(child TChild, isRollback bool) TChild

// ToDeltaFunc projects an opaque child edit into the delta type ChildDelta
// the host uses to drive an in-memory tree update (spec.md §4.5's
// deltaFromChild collaborator).
type ToDeltaFunc[TChild any, ChildDelta any] func(child TChild) ChildDelta

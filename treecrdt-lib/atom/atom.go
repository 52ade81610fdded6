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

// Package atom defines the identifiers shared by every field kind that
// participates in the rebasing algebra: revision tags, local ids, and the
// fully-qualified (revision, localId) pair that names a detached-node slot.
package atom

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// RevisionTag is an opaque, globally unique identifier for one logical edit
// (one per author/commit). It supports equality only; callers must not rely
// on any ordering among tags themselves — mutual ordering comes from a
// revision.MetadataSource, never from the tag's bit pattern.
type RevisionTag uuid.UUID

// NewRevisionTag mints a fresh, random revision tag. Production hosts that
// already have a commit identifier (e.g. a sequencer-assigned id) should
// construct a RevisionTag from it directly rather than calling this; it
// exists mainly for tests and for local-only speculative edits that have not
// yet been sequenced.
func NewRevisionTag() RevisionTag {
	return RevisionTag(uuid.New())
}

// Zero is the reserved "no revision" tag. It is never a valid committed
// revision; it is used internally by Elided to mean "this changeset's own
// revision".
var Zero RevisionTag

func (r RevisionTag) String() string {
	if r == Zero {
		return "<elided>"
	}
	return uuid.UUID(r).String()
}

// LocalId is a monotonically increasing, non-negative integer unique within
// one changeset's id space.
type LocalId uint64

func (l LocalId) String() string {
	return fmt.Sprintf("L%d", uint64(l))
}

// ChangeAtomId is a fully-qualified id: a LocalId paired with the revision
// that minted it. HasRevision is false when the revision has been elided —
// meaning "the revision of whichever changeset this atom id currently lives
// in" — per spec.md §3 and §9; replaceRevisions (C4.4.4) is the only
// operation that may turn an elided atom into an explicit one.
type ChangeAtomId struct {
	Revision    RevisionTag
	HasRevision bool
	Local       LocalId
}

// Explicit builds a fully materialized atom id.
func Explicit(revision RevisionTag, local LocalId) ChangeAtomId {
	return ChangeAtomId{Revision: revision, HasRevision: true, Local: local}
}

// Elided builds an atom id whose revision is implicit.
func Elided(local LocalId) ChangeAtomId {
	return ChangeAtomId{Local: local}
}

// Inline substitutes an elided revision with the given one. It is a no-op if
// the atom already carries an explicit revision.
func (a ChangeAtomId) Inline(revision RevisionTag) ChangeAtomId {
	if a.HasRevision {
		return a
	}
	return Explicit(revision, a.Local)
}

// Equal compares two atom ids for exact identity. Two atoms with one elided
// and one explicit revision are NOT equal unless inlined first — callers
// performing cross-changeset comparisons must inline both sides against
// their owning changeset's revision before calling Equal.
func (a ChangeAtomId) Equal(b ChangeAtomId) bool {
	return a.HasRevision == b.HasRevision && a.Revision == b.Revision && a.Local == b.Local
}

// Less gives a total, deterministic order over atom ids, used only for
// canonicalizing a changeset's internal collections (spec.md §4.2); it
// carries no semantic meaning about which edit happened "first".
func (a ChangeAtomId) Less(b ChangeAtomId) bool {
	if a.HasRevision != b.HasRevision {
		return !a.HasRevision // elided sorts first
	}
	if a.Revision != b.Revision {
		ab, bb := uuid.UUID(a.Revision), uuid.UUID(b.Revision)
		return bytes.Compare(ab[:], bb[:]) < 0
	}
	return a.Local < b.Local
}

func (a ChangeAtomId) String() string {
	if !a.HasRevision {
		return fmt.Sprintf("%s@<elided>", a.Local)
	}
	return fmt.Sprintf("%s@%s", a.Local, a.Revision)
}

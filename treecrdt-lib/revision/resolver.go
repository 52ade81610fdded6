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

package revision

import (
	"fmt"

	"github.com/erigontech/treecrdt-lib/atom"
)

// Resolver wraps a MetadataSource with the "current operation" context the
// rebaser algebra needs while walking one compose/rebase call: which
// revision is authoring the output, and tracing for debug logging. It plays
// the same small-stateful-façade role the teacher's HistoryReaderV3 plays
// around a temporal KV transaction, trading "as of this historical point"
// for "as of this revision".
type Resolver struct {
	source  MetadataSource
	current atom.RevisionTag
	hasCur  bool
	trace   bool
}

// NewResolver wraps source. The zero Resolver is not usable; always build
// one through NewResolver so source is never nil.
func NewResolver(source MetadataSource) *Resolver {
	return &Resolver{source: source}
}

func (r *Resolver) String() string {
	if !r.hasCur {
		return "revision.Resolver{current:<unset>}"
	}
	return fmt.Sprintf("revision.Resolver{current:%s}", r.current)
}

// SetCurrent records which revision is authoring the changeset currently
// being produced, so elided atom ids can be inlined against it.
func (r *Resolver) SetCurrent(rev atom.RevisionTag) { r.current = rev; r.hasCur = true }

// Current returns the revision set by SetCurrent.
func (r *Resolver) Current() atom.RevisionTag { return r.current }

// SetTrace toggles verbose resolution logging, mirroring the teacher's own
// opt-in per-call tracing flag.
func (r *Resolver) SetTrace(trace bool) { r.trace = trace }

// Inline substitutes an elided atom id's revision with Current.
func (r *Resolver) Inline(a atom.ChangeAtomId) atom.ChangeAtomId {
	if a.HasRevision {
		return a
	}
	return a.Inline(r.current)
}

// LaterOf returns whichever of a, b the underlying MetadataSource ranks
// later — the winner of a concurrent-write LWW tie-break (spec.md §4.4.3
// step 2, law 10).
func (r *Resolver) LaterOf(a, b atom.RevisionTag) atom.RevisionTag {
	if r.source.IsLaterThan(a, b) {
		if r.trace {
			fmt.Printf("revision.Resolver.LaterOf(%s, %s) => %s\n", a, b, a)
		}
		return a
	}
	if r.trace {
		fmt.Printf("revision.Resolver.LaterOf(%s, %s) => %s\n", a, b, b)
	}
	return b
}

// RollbackOf delegates to the underlying MetadataSource.
func (r *Resolver) RollbackOf(rev atom.RevisionTag) (atom.RevisionTag, bool) {
	return r.source.RollbackOf(rev)
}

// Order delegates to the underlying MetadataSource.
func (r *Resolver) Order(revisions []atom.RevisionTag) []atom.RevisionTag {
	return r.source.Order(revisions)
}

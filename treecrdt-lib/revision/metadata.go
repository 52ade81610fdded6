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

// Package revision gives the rebasing algebra (C4) the mutual ordering and
// rollback relationships among the revisions an operation touches, per
// spec.md §6's RevisionMetadataSource collaborator.
package revision

import (
	"errors"

	"github.com/erigontech/treecrdt-lib/atom"
)

// ErrUnknownRevision is the value StaticMetadata.IsLaterThan panics with
// when asked to compare a revision it has never been told about (Order
// ranks such a revision as if it were the first). A rebase that hits this
// is a caller bug: every revision a changeset references must have been
// registered with the metadata source before the operation runs.
var ErrUnknownRevision = errors.New("revision: metadata source has no record of this revision")

// MetadataSource gives the rebaser algebra (C4) the ordering and
// rollback-of relationships among a set of revisions, per spec.md §6. Its
// answers drive LWW tie-breaking in rebase; compose does not consult it
// and elides no revisions.
type MetadataSource interface {
	// Order returns the given revisions sorted earliest-first according to
	// this source's committed sequence order.
	Order(revisions []atom.RevisionTag) []atom.RevisionTag

	// IsLaterThan reports whether a was sequenced after b. Both must have
	// been registered with the source.
	IsLaterThan(a, b atom.RevisionTag) bool

	// RollbackOf reports the revision r is the inverse-rollback of, if any.
	RollbackOf(r atom.RevisionTag) (atom.RevisionTag, bool)
}

// StaticMetadata is the default MetadataSource: an explicit, caller-supplied
// ordered revision list. It is what tests and any host that commits
// revisions in strict sequence order should use; richer sequencers
// implement MetadataSource directly against their own commit log.
type StaticMetadata struct {
	rank       map[atom.RevisionTag]int
	rollbackOf map[atom.RevisionTag]atom.RevisionTag
}

// NewStaticMetadata builds a StaticMetadata from revisions listed
// earliest-first.
func NewStaticMetadata(earliestFirst ...atom.RevisionTag) *StaticMetadata {
	m := &StaticMetadata{
		rank:       make(map[atom.RevisionTag]int, len(earliestFirst)),
		rollbackOf: make(map[atom.RevisionTag]atom.RevisionTag),
	}
	for i, r := range earliestFirst {
		m.rank[r] = i
	}
	return m
}

// MarkRollback records that revision r is the rollback-form inverse of of.
func (m *StaticMetadata) MarkRollback(r, of atom.RevisionTag) {
	m.rollbackOf[r] = of
}

func (m *StaticMetadata) Order(revisions []atom.RevisionTag) []atom.RevisionTag {
	out := make([]atom.RevisionTag, len(revisions))
	copy(out, revisions)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && m.rank[out[j-1]] > m.rank[out[j]]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (m *StaticMetadata) IsLaterThan(a, b atom.RevisionTag) bool {
	ra, aok := m.rank[a]
	rb, bok := m.rank[b]
	if !aok || !bok {
		panic(ErrUnknownRevision)
	}
	return ra > rb
}

func (m *StaticMetadata) RollbackOf(r atom.RevisionTag) (atom.RevisionTag, bool) {
	of, ok := m.rollbackOf[r]
	return of, ok
}

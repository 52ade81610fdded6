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

// Package optional implements the changeset algebra for a single
// optional-value field (C2-C5 of the rebasing core): an edit to a field that
// holds at most one child, with compose, invert, rebase, and delta
// projection all satisfying the algebraic laws a last-writer-wins field
// needs under concurrent and out-of-order delivery.
//
// The package is parameterized over the child edit type TChild so a host can
// nest this field inside a larger tree without this package knowing anything
// about the host's own node representation; the companion rebaser package
// wires a concrete TChild's rebase/compose/invert/toDelta functions through
// the collaborator types declared in childchange.go.
package optional

import "github.com/erigontech/treecrdt-lib/atom"

// EndpointLocation names where a move or child change targets: either the
// symbolic "self" occupant of the field, or a concrete detached atom id. The
// two are unified into one sum type because a move's dst, a replace's src,
// and a child change's key all draw from the same space (spec.md §3).
type EndpointLocation struct {
	self bool
	atom atom.ChangeAtomId
}

// SelfLocation is the field's own occupant slot.
func SelfLocation() EndpointLocation { return EndpointLocation{self: true} }

// AtomLocation addresses a detached node by id.
func AtomLocation(id atom.ChangeAtomId) EndpointLocation { return EndpointLocation{atom: id} }

// IsSelf reports whether l is the symbolic self marker.
func (l EndpointLocation) IsSelf() bool { return l.self }

// Atom returns the addressed atom id and true, or the zero id and false if l
// is Self.
func (l EndpointLocation) Atom() (atom.ChangeAtomId, bool) {
	return l.atom, !l.self
}

// Equal compares two locations for exact identity (no inlining performed).
func (l EndpointLocation) Equal(o EndpointLocation) bool {
	if l.self != o.self {
		return false
	}
	return l.self || l.atom.Equal(o.atom)
}

// Less gives a total order used only for canonicalization: self sorts before
// every atom location, atom locations then sort by atom.ChangeAtomId.Less.
func (l EndpointLocation) Less(o EndpointLocation) bool {
	if l.self != o.self {
		return l.self
	}
	if l.self {
		return false
	}
	return l.atom.Less(o.atom)
}

func (l EndpointLocation) String() string {
	if l.self {
		return "self"
	}
	return l.atom.String()
}

// Move relocates whatever currently resides at Src to Dst. Both endpoints
// are atom ids, never self: a move by definition does not touch the field's
// occupant slot directly, only the detached-root bookkeeping around it.
type Move struct {
	Src atom.ChangeAtomId
	Dst atom.ChangeAtomId
}

type replaceSourceKind uint8

const (
	replaceSourceAbsent replaceSourceKind = iota
	replaceSourceSelf
	replaceSourceAtom
)

// ReplaceSource names what fills the field slot after a valueReplace: no
// fill at all (a clear), the field's own prior occupant pinned in place (a
// no-op replace used to anchor a child edit under concurrent moves), or a
// fresh/foreign atom id being attached.
type ReplaceSource struct {
	kind replaceSourceKind
	id   atom.ChangeAtomId
}

// AbsentSource builds the "nothing fills the slot" source, used by clear.
func AbsentSource() ReplaceSource { return ReplaceSource{kind: replaceSourceAbsent} }

// SelfSource builds the "pin the current occupant" source.
func SelfSource() ReplaceSource { return ReplaceSource{kind: replaceSourceSelf} }

// AttachSource builds a source that fills the slot with id.
func AttachSource(id atom.ChangeAtomId) ReplaceSource {
	return ReplaceSource{kind: replaceSourceAtom, id: id}
}

// IsAbsent reports whether this source fills nothing.
func (s ReplaceSource) IsAbsent() bool { return s.kind == replaceSourceAbsent }

// IsSelf reports whether this source pins the existing occupant.
func (s ReplaceSource) IsSelf() bool { return s.kind == replaceSourceSelf }

// Atom returns the attaching atom id and true, or the zero id and false if s
// is not an atom source.
func (s ReplaceSource) Atom() (atom.ChangeAtomId, bool) {
	return s.id, s.kind == replaceSourceAtom
}

func (s ReplaceSource) String() string {
	switch s.kind {
	case replaceSourceAbsent:
		return "absent"
	case replaceSourceSelf:
		return "self"
	default:
		return s.id.String()
	}
}

// ValueReplace describes what happens to the field's occupant slot: IsEmpty
// records whether the slot was empty going into this changeset, Dst is the
// id the prior occupant (if any) is detached to, and Src names what fills
// the slot afterward.
type ValueReplace struct {
	IsEmpty bool
	Dst     atom.ChangeAtomId
	Src     ReplaceSource
}

// ChildChangePair keys one opaque child edit by the location it targets.
// Exactly one pair may exist per distinct location in a well-formed
// changeset (spec.md §3, child-change site uniqueness).
type ChildChangePair[TChild any] struct {
	Location EndpointLocation
	Change   TChild
}

// Changeset is one edit to an optional-value field. TChild is supplied by
// the host field kind nesting this one; this package never inspects it
// directly, only through the collaborator functions in childchange.go.
//
// InputEmpty and OutputEmpty record the field's occupancy immediately before
// and after this changeset applies. They are set by the Editor when a
// changeset is first built and must be preserved end-to-end by Compose,
// Invert, and Rebase; Compose's context-chain check (spec.md §7 kind 1)
// verifies a.OutputEmpty == b.InputEmpty before combining two changesets.
type Changeset[TChild any] struct {
	InputEmpty   bool
	OutputEmpty  bool
	Moves        []Move
	ChildChanges []ChildChangePair[TChild]
	ValueReplace *ValueReplace
}

// IsEmpty reports whether c carries no edit at all — the algebra's identity
// element ε, which every operation must special-case (spec.md §7 kind 3).
func (c Changeset[TChild]) IsEmpty() bool {
	return len(c.Moves) == 0 && len(c.ChildChanges) == 0 && c.ValueReplace == nil
}

// AllAtomIds collects every atom id referenced anywhere in c: move
// endpoints, child-change locations, and the value replace's dst/src. Used
// by callers seeding an idalloc.Allocator across several input changesets
// at once. Validate does not use it.
func AllAtomIds[TChild any](c Changeset[TChild]) []atom.ChangeAtomId {
	var ids []atom.ChangeAtomId
	for _, m := range c.Moves {
		ids = append(ids, m.Src, m.Dst)
	}
	for _, cc := range c.ChildChanges {
		if id, ok := cc.Location.Atom(); ok {
			ids = append(ids, id)
		}
	}
	if c.ValueReplace != nil {
		ids = append(ids, c.ValueReplace.Dst)
		if id, ok := c.ValueReplace.Src.Atom(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

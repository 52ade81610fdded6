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

// MarkKind names which of the local-mark shapes spec.md §4.5 describes a
// Mark carries.
type MarkKind uint8

const (
	MarkKeep MarkKind = iota
	MarkAttach
	MarkDetach
	MarkReplace
)

func (k MarkKind) String() string {
	switch k {
	case MarkAttach:
		return "attach"
	case MarkDetach:
		return "detach"
	case MarkReplace:
		return "replace"
	default:
		return "keep"
	}
}

// Mark is the field's single local-state-transition entry. An optional
// field holds at most one child, so its own transition is always at most
// one event; HasNested/NestedChild fold a self-targeted child change onto
// whichever of the four kinds applies, rather than adding a fifth
// combinatorial "nested" kind, per spec.md §4.5 ("child changes on self
// attach to the local mark as nested").
type Mark[ChildDelta any] struct {
	Kind        MarkKind
	AttachID    atom.ChangeAtomId
	DetachID    atom.ChangeAtomId
	HasNested   bool
	NestedChild ChildDelta
}

// GlobalEntry carries a nested edit addressed at a root this field has
// already detached (or never held locally) — it no longer lives in the
// local mark, so its continued edits ship alongside it.
type GlobalEntry[ChildDelta any] struct {
	ID     atom.ChangeAtomId
	Fields ChildDelta
}

// FieldDelta is the external, application-facing description of what an
// optional field changed (spec.md §4.5).
type FieldDelta[ChildDelta any] struct {
	Local  []Mark[ChildDelta]
	Global []GlobalEntry[ChildDelta]
}

// resolveSelf resolves a self-targeted location against vr per the
// invariant in spec.md §3: self refers to the post-replace occupant only
// when vr.Src is a pin (or there is no replace at all, i.e. a pure
// child-change changeset); otherwise it refers to the occupant as it stood
// before this changeset's own replace, which has already been detached to
// vr.Dst by the time the delta is projected.
func resolveSelf(loc EndpointLocation, vr *ValueReplace) EndpointLocation {
	if vr == nil || vr.Src.IsSelf() {
		return loc
	}
	return AtomLocation(vr.Dst)
}

// IntoDelta projects c into the external FieldDelta an application layer
// applies to its tree (spec.md §4.5, the intoDelta external interface of
// §6). toDelta converts one opaque child edit into the delta type the
// caller's tree understands.
func IntoDelta[TChild, ChildDelta any](c Changeset[TChild], toDelta ToDeltaFunc[TChild, ChildDelta]) FieldDelta[ChildDelta] {
	var out FieldDelta[ChildDelta]
	var local *Mark[ChildDelta]

	if c.ValueReplace != nil {
		vr := c.ValueReplace
		switch {
		case vr.Src.IsAbsent() && vr.IsEmpty:
			// stays empty: no mark at all, dst is reserved but invisible.
		case vr.Src.IsAbsent():
			local = &Mark[ChildDelta]{Kind: MarkDetach, DetachID: vr.Dst}
		case vr.Src.IsSelf():
			local = &Mark[ChildDelta]{Kind: MarkKeep}
		case vr.IsEmpty:
			id, _ := vr.Src.Atom()
			local = &Mark[ChildDelta]{Kind: MarkAttach, AttachID: id}
		default:
			id, _ := vr.Src.Atom()
			local = &Mark[ChildDelta]{Kind: MarkReplace, AttachID: id, DetachID: vr.Dst}
		}
	}

	for _, cc := range c.ChildChanges {
		loc := cc.Location
		if loc.IsSelf() {
			loc = resolveSelf(loc, c.ValueReplace)
		}
		if loc.IsSelf() {
			if local == nil {
				local = &Mark[ChildDelta]{Kind: MarkKeep}
			}
			local.HasNested = true
			local.NestedChild = toDelta(cc.Change)
			continue
		}
		id, _ := loc.Atom()
		if c.ValueReplace != nil {
			if attachID, ok := c.ValueReplace.Src.Atom(); ok && attachID.Equal(id) {
				// Targets the content this changeset just attached: it is
				// now locally resident, so it nests onto the local mark
				// instead of shipping as a detached global entry.
				if local == nil {
					local = &Mark[ChildDelta]{Kind: MarkAttach, AttachID: id}
				}
				local.HasNested = true
				local.NestedChild = toDelta(cc.Change)
				continue
			}
		}
		out.Global = append(out.Global, GlobalEntry[ChildDelta]{ID: id, Fields: toDelta(cc.Change)})
	}

	if local != nil {
		out.Local = []Mark[ChildDelta]{*local}
	}
	return out
}

// RelevantRemovedRoots yields every detached root that must be materialized
// for c's delta to apply (spec.md §6): the node being attached by a field
// write, plus whatever every global entry's own child delegate reports as
// needed, recursively.
func RelevantRemovedRoots[TChild, ChildDelta any](
	c Changeset[TChild],
	toDelta ToDeltaFunc[TChild, ChildDelta],
	fromChild func(ChildDelta) []atom.ChangeAtomId,
) []atom.ChangeAtomId {
	var out []atom.ChangeAtomId

	var attachID atom.ChangeAtomId
	var hasAttach bool
	if c.ValueReplace != nil {
		if id, ok := c.ValueReplace.Src.Atom(); ok {
			attachID = id
			hasAttach = true
			out = append(out, id)
		}
	}

	for _, cc := range c.ChildChanges {
		loc := cc.Location
		if loc.IsSelf() {
			loc = resolveSelf(loc, c.ValueReplace)
		}
		id, ok := loc.Atom()
		if !ok {
			continue
		}
		if hasAttach && attachID.Equal(id) {
			// Already being paged in as part of the attach above.
			continue
		}
		out = append(out, id)
		out = append(out, fromChild(toDelta(cc.Change))...)
	}

	return out
}

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

package rebaser

import (
	"github.com/erigontech/treecrdt-lib/atom"

	"github.com/erigontech/treecrdt/optional"
)

// ReplaceRevisions rewrites every atom id in c that names a revision in
// oldRevisions to newRevision instead, the bookkeeping step spec.md §4.4.4
// and §6 name for squashing a revision range into one after it lands. An
// elided atom is rewritten too when includeElided is set, since an elided
// id's implicit revision is whatever changeset owns it and that ownership
// is exactly what is being renamed.
func ReplaceRevisions[TChild any](
	c optional.Changeset[TChild],
	oldRevisions map[atom.RevisionTag]bool,
	includeElided bool,
	newRevision atom.RevisionTag,
) optional.Changeset[TChild] {
	rewrite := func(id atom.ChangeAtomId) atom.ChangeAtomId {
		if !id.HasRevision {
			if includeElided {
				return atom.Explicit(newRevision, id.Local)
			}
			return id
		}
		if oldRevisions[id.Revision] {
			return atom.Explicit(newRevision, id.Local)
		}
		return id
	}
	rewriteLoc := func(loc optional.EndpointLocation) optional.EndpointLocation {
		if loc.IsSelf() {
			return loc
		}
		id, _ := loc.Atom()
		return optional.AtomLocation(rewrite(id))
	}

	moves := make([]optional.Move, len(c.Moves))
	for i, m := range c.Moves {
		moves[i] = optional.Move{Src: rewrite(m.Src), Dst: rewrite(m.Dst)}
	}
	childChanges := make([]optional.ChildChangePair[TChild], len(c.ChildChanges))
	for i, cc := range c.ChildChanges {
		childChanges[i] = optional.ChildChangePair[TChild]{Location: rewriteLoc(cc.Location), Change: cc.Change}
	}
	var vr *optional.ValueReplace
	if c.ValueReplace != nil {
		v := *c.ValueReplace
		v.Dst = rewrite(v.Dst)
		if id, ok := v.Src.Atom(); ok {
			v.Src = optional.AttachSource(rewrite(id))
		}
		vr = &v
	}

	return optional.Changeset[TChild]{
		InputEmpty:   c.InputEmpty,
		OutputEmpty:  c.OutputEmpty,
		Moves:        moves,
		ChildChanges: childChanges,
		ValueReplace: vr,
	}
}

// ReplaceRevisions is the Rebaser method form of the package-level function,
// kept for API symmetry with spec.md §6's listing of Compose/Invert/Rebase/
// ReplaceRevisions/IsEmpty as the five Rebaser operations; it needs no
// collaborator state so it simply forwards.
func (r *Rebaser[TChild]) ReplaceRevisions(
	c optional.Changeset[TChild],
	oldRevisions map[atom.RevisionTag]bool,
	includeElided bool,
	newRevision atom.RevisionTag,
) optional.Changeset[TChild] {
	return ReplaceRevisions(c, oldRevisions, includeElided, newRevision)
}

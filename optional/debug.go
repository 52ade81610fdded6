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

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/erigontech/treecrdt-lib/atom"
)

// debugAtomID mirrors atom.ChangeAtomId for dumping, rendering Local as
// atom.HexLocalId: a scenario test's own loop counters and revision ranks
// are small decimals, and a dump that also prints local ids in decimal is
// easy to misread as one of those rather than as a minted atom id.
type debugAtomID struct {
	Revision    atom.RevisionTag
	HasRevision bool
	Local       atom.HexLocalId
}

func toDebugAtomID(id atom.ChangeAtomId) debugAtomID {
	return debugAtomID{Revision: id.Revision, HasRevision: id.HasRevision, Local: atom.HexLocalId(id.Local)}
}

type debugLocation struct {
	Self bool
	Atom debugAtomID
}

func toDebugLocation(l EndpointLocation) debugLocation {
	if l.IsSelf() {
		return debugLocation{Self: true}
	}
	id, _ := l.Atom()
	return debugLocation{Atom: toDebugAtomID(id)}
}

type debugMove struct {
	Src, Dst debugAtomID
}

type debugChildChange[TChild any] struct {
	Location debugLocation
	Change   TChild
}

type debugValueReplace struct {
	IsEmpty bool
	Dst     debugAtomID
	Src     string
}

type debugChangeset[TChild any] struct {
	InputEmpty, OutputEmpty bool
	Moves                   []debugMove
	ChildChanges            []debugChildChange[TChild]
	ValueReplace            *debugValueReplace
}

// Dump renders c as a multi-line debug string via go-spew, with every
// LocalId hex-formatted, for use in test failure messages — a bare %+v
// prints decimal local ids that are easy to confuse with a scenario
// table's own small integer counters.
func (c Changeset[TChild]) Dump() string {
	d := debugChangeset[TChild]{InputEmpty: c.InputEmpty, OutputEmpty: c.OutputEmpty}
	for _, m := range c.Moves {
		d.Moves = append(d.Moves, debugMove{Src: toDebugAtomID(m.Src), Dst: toDebugAtomID(m.Dst)})
	}
	for _, cc := range c.ChildChanges {
		d.ChildChanges = append(d.ChildChanges, debugChildChange[TChild]{Location: toDebugLocation(cc.Location), Change: cc.Change})
	}
	if c.ValueReplace != nil {
		d.ValueReplace = &debugValueReplace{
			IsEmpty: c.ValueReplace.IsEmpty,
			Dst:     toDebugAtomID(c.ValueReplace.Dst),
			Src:     c.ValueReplace.Src.String(),
		}
	}
	return spew.Sdump(d)
}

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
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/erigontech/treecrdt-lib/atom"
)

// Validate checks c against the structural invariants spec.md §3 requires
// of a well-formed changeset: no move source or destination used twice, no
// move from a location to itself, and no two child changes at the same
// location. It reports every violation it finds combined into one error
// rather than stopping at the first (spec.md §7 kind 1). It does not check
// local ids for reuse across moves, child changes and the value replace.
func Validate[TChild any](c Changeset[TChild]) error {
	var errs []error

	srcs := mapset.NewThreadUnsafeSet[atom.ChangeAtomId]()
	dsts := mapset.NewThreadUnsafeSet[atom.ChangeAtomId]()
	for _, m := range c.Moves {
		if m.Src.Equal(m.Dst) {
			errs = append(errs, newViolation("move-self", fmt.Sprintf("move %s -> %s is a no-op self move", m.Src, m.Dst)))
		}
		if srcs.Contains(m.Src) {
			errs = append(errs, newViolation("move-src-reused", fmt.Sprintf("%s used as a move source more than once", m.Src)))
		}
		srcs.Add(m.Src)
		if dsts.Contains(m.Dst) {
			errs = append(errs, newViolation("move-dst-reused", fmt.Sprintf("%s used as a move destination more than once", m.Dst)))
		}
		dsts.Add(m.Dst)
	}

	locs := mapset.NewThreadUnsafeSet[EndpointLocation]()
	for _, cc := range c.ChildChanges {
		if locs.Contains(cc.Location) {
			errs = append(errs, newViolation("child-change-site-reused", fmt.Sprintf("%s targeted by more than one child change", cc.Location)))
		}
		locs.Add(cc.Location)
	}

	return combineViolations(errs...)
}

// Copyright 2021 The Erigon Authors
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

package crossfield

// Target names the kind of sibling field a move endpoint may reference when
// it crosses into another field during a cross-field move (spec.md §6). It
// plays the same registry role that a storage engine's table-name constants
// play for keyed collections: every distinct kind of thing a key can point
// into gets one named, documented entry here, so Get/Set calls and log lines
// read by kind rather than by a bare integer.
type Target uint8

const (
	// unspecifiedTarget catches a zero-value Target used by mistake; no
	// collaborator should ever see it.
	unspecifiedTarget Target = iota

	// OptionalFieldTarget addresses another optional field's detach/attach
	// bookkeeping — the kind this repository itself implements.
	OptionalFieldTarget

	// SequenceFieldTarget addresses an ordered-list field's move
	// bookkeeping. Not implemented in this repository; reserved so a move
	// that crosses from an optional field into a sequence field (or vice
	// versa) has a well-known target to address.
	SequenceFieldTarget

	// MapFieldTarget addresses a keyed-map field's move bookkeeping.
	// Reserved for the same reason as SequenceFieldTarget.
	MapFieldTarget
)

func (t Target) String() string {
	switch t {
	case OptionalFieldTarget:
		return "OptionalField"
	case SequenceFieldTarget:
		return "SequenceField"
	case MapFieldTarget:
		return "MapField"
	default:
		return "UnspecifiedTarget"
	}
}

// Valid reports whether t is one of the documented constants above.
func (t Target) Valid() bool {
	switch t {
	case OptionalFieldTarget, SequenceFieldTarget, MapFieldTarget:
		return true
	default:
		return false
	}
}

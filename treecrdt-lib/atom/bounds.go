// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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

package atom

import (
	"fmt"
	"math/bits"
	"strconv"
)

// MaxLocalId is the top of the LocalId space. The allocator never returns
// it: reaching it leaves no successor id, and idalloc.Allocator panics
// instead of wrapping around.
const MaxLocalId LocalId = 1<<64 - 1

// HexLocalId marshals a LocalId as hex, for debug dumps and golden fixtures
// where decimal ids are easy to transpose.
type HexLocalId LocalId

// String formats h as hex, so fmt and go-spew print it the same way
// MarshalText does.
func (h HexLocalId) String() string {
	return fmt.Sprintf("%#x", uint64(h))
}

func (h HexLocalId) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%#x", uint64(h))), nil
}

func (h *HexLocalId) UnmarshalText(input []byte) error {
	n, ok := ParseLocalId(string(input))
	if !ok {
		return fmt.Errorf("invalid local id %q", input)
	}
	*h = HexLocalId(n)
	return nil
}

// ParseLocalId parses s as a LocalId in decimal or hexadecimal syntax.
func ParseLocalId(s string) (LocalId, bool) {
	if s == "" {
		return 0, true
	}
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return LocalId(v), err == nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return LocalId(v), err == nil
}

// SafeNext returns id+1 and reports whether that increment overflowed
// MaxLocalId. The allocator (idalloc.Allocator) treats an overflow as an
// invariant violation rather than silently wrapping around to 0 and
// colliding with already-minted ids.
func SafeNext(id LocalId) (LocalId, bool) {
	sum, carry := bits.Add64(uint64(id), 1, 0)
	return LocalId(sum), carry != 0
}

// Max returns the larger of two LocalIds.
func Max(a, b LocalId) LocalId {
	if a > b {
		return a
	}
	return b
}

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
	"fmt"

	"github.com/pkg/errors"

	"github.com/erigontech/treecrdt-lib/logutil"
)

// ContextChainError reports a violated context-chain invariant (spec.md §3,
// §7 kind 1): the output context one changeset leaves the field in must
// equal the input context the next operation assumes whenever they are
// composed. A rebase instead needs both changesets to share one input
// context; for Op "rebase", GotOutput and WantedInput hold the input
// emptiness of the rebased changeset and of the base.
type ContextChainError struct {
	Op          string
	GotOutput   bool
	WantedInput bool
	cause       error
}

func (e *ContextChainError) Error() string {
	if e.Op == "rebase" {
		return fmt.Sprintf("rebaser: rebase: context chain broken (rebased input empty=%v, base input empty=%v)", e.GotOutput, e.WantedInput)
	}
	return fmt.Sprintf("rebaser: %s: context chain broken (left output empty=%v, right input empty=%v)", e.Op, e.GotOutput, e.WantedInput)
}

func (e *ContextChainError) Unwrap() error { return e.cause }

func newContextChainError(op string, gotOutput, wantedInput bool) error {
	return &ContextChainError{Op: op, GotOutput: gotOutput, WantedInput: wantedInput, cause: errors.New("context chain mismatch")}
}

// InvariantError reports any other broken structural invariant encountered
// mid-algorithm (spec.md §7 kind 1) that is not a context-chain mismatch.
type InvariantError struct {
	Invariant string
	Detail    string
	cause     error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rebaser: invariant violated (%s): %s", e.Invariant, e.Detail)
}

func (e *InvariantError) Unwrap() error { return e.cause }

func newInvariantError(invariant, detail string) error {
	return &InvariantError{Invariant: invariant, Detail: detail, cause: errors.New(detail)}
}

// logViolation records err through logger before handing it back to the
// caller, so a host embedding this core gets a structured breadcrumb even
// if it only inspects the returned error.
func logViolation(logger logutil.Logger, err error) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = logutil.Noop
	}
	logger.Error("rebaser: invariant violation", "error", err)
	return err
}

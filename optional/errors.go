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

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/erigontech/treecrdt-lib/logutil"
)

// InvariantViolation reports a broken structural invariant of a changeset or
// changeset pair (spec.md §7 kind 1): a caller bug in how a changeset was
// built or combined, never a condition a well-behaved caller can hit in
// normal operation.
type InvariantViolation struct {
	Invariant string
	Detail    string
	cause     error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("optional: invariant violated (%s): %s", e.Invariant, e.Detail)
}

func (e *InvariantViolation) Unwrap() error { return e.cause }

func newViolation(invariant, detail string) error {
	return &InvariantViolation{Invariant: invariant, Detail: detail, cause: errors.New(detail)}
}

// logViolation records err through logger before handing it back to the
// caller, so a host embedding this core gets a structured breadcrumb even
// when it only inspects the returned error.
func logViolation(logger logutil.Logger, err error) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = logutil.Noop
	}
	logger.Error("optional: invariant violation", "error", err)
	return err
}

// combineViolations aggregates every broken invariant from one validation
// pass into a single error, so a caller sees the whole picture instead of
// only the first failure found.
func combineViolations(errs ...error) error {
	return multierr.Combine(errs...)
}

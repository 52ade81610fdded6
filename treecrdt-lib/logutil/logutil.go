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

// Package logutil gives the rebasing core a small structured-logging
// interface, mirroring the shape of the teacher's own erigon-lib/log/v3
// wrapper: a handful of leveled methods taking structured key-value pairs,
// backed by go.uber.org/zap, with a no-op default so a library caller who
// never configures one doesn't crash.
package logutil

import "go.uber.org/zap"

// Logger is the structured logging contract every package in this
// repository depends on instead of importing zap directly, so the backing
// implementation can be swapped (or stubbed in tests) without touching
// call sites.
type Logger interface {
	Debug(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NewZap wraps an existing *zap.Logger.
func NewZap(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

type zapLogger struct{ s *zap.SugaredLogger }

func (l *zapLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

// Noop is a Logger that discards everything; it is the package-level
// default so constructing a Rebaser (see the rebaser package) without
// WithLogger never panics.
var Noop Logger = noopLogger{}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

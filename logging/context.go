// Copyright 2025-2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"log/slog"
)

type loggerContextKey struct{}

// ContextWithLogger returns a child context carrying logger. The middleware
// stores the request-scoped logger this way.
func ContextWithLogger(ctx context.Context, logger TraceLogger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext returns the logger stored by ContextWithLogger.
func LoggerFromContext(ctx context.Context) (TraceLogger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(loggerContextKey{}).(TraceLogger)
	return logger, ok && logger != nil
}

// FromContext returns a *slog.Logger for ctx: the bound Logger when it is one
// (or wraps one), otherwise slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := LoggerFromContext(ctx)
	if !ok {
		return slog.Default()
	}
	switch l := logger.(type) {
	case *Logger:
		if l.Logger != nil {
			return l.Logger
		}
	case interface{ Slog() *slog.Logger }:
		if s := l.Slog(); s != nil {
			return s
		}
	}
	return slog.Default()
}

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
	"testing"
)

// TestFromContextReturnsBoundLogger resolves the embedded slog logger.
func TestFromContextReturnsBoundLogger(t *testing.T) {
	logger, _ := newTestLogger(t)
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger.Logger {
		t.Fatalf("FromContext returned %p, want %p", got, logger.Logger)
	}
	if got, ok := LoggerFromContext(ctx); !ok || got != logger {
		t.Fatalf("LoggerFromContext = (%v, %v)", got, ok)
	}
}

// TestFromContextDefaults falls back to slog.Default without a logger.
func TestFromContextDefaults(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Fatalf("FromContext without logger did not return slog.Default()")
	}
	if got := FromContext(ContextWithLogger(context.Background(), &spyLogger{})); got != slog.Default() {
		t.Fatalf("FromContext with a non-slog TraceLogger did not return slog.Default()")
	}
	if ctx := ContextWithLogger(context.Background(), nil); ctx != context.Background() {
		t.Fatalf("nil logger should not wrap the context")
	}
}

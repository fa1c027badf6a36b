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
	"errors"
	"log/slog"
)

// ErrProjectIDMissing indicates that the Cloud Logging target was selected but
// no project ID could be resolved from options, the environment or the
// metadata server.
var ErrProjectIDMissing = errors.New("gcpkit/logging: project ID required for the gcp target but not found")

// ErrInvalidLogTarget indicates an unrecognized GCPKIT_LOG_TARGET value.
var ErrInvalidLogTarget = errors.New("gcpkit/logging: invalid log target")

// ErrInvalidLevel indicates an unrecognized GCPKIT_LOG_LEVEL value.
var ErrInvalidLevel = errors.New("gcpkit/logging: invalid log level")

// ErrClientInitializationFailed indicates that the underlying
// cloud.google.com/go/logging client could not be created.
var ErrClientInitializationFailed = errors.New("gcpkit/logging: cloud logging client initialization failed")

// ErrConfigInvalid wraps failures while parsing environment configuration.
var ErrConfigInvalid = errors.New("gcpkit/logging: invalid environment configuration")

// ErrLoggerClosed is returned by Flush after Close.
var ErrLoggerClosed = errors.New("gcpkit/logging: logger closed")

// logDiagnostic emits internal diagnostic messages, guarding against nil
// loggers in tests.
func logDiagnostic(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

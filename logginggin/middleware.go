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

// Package logginggin adapts the logging middleware to gin. The logger is
// bound to the request context and also stored on the *gin.Context under
// ContextKey.
package logginggin

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pjscruggs/gcpkit"
	"github.com/pjscruggs/gcpkit/logging"
)

// ContextKey is the gin.Context key holding the request's logger.
const ContextKey = "gcpkit.logger"

// Middleware binds logger and the request's Cloud Trace ID around the rest
// of the handler chain and releases the association afterwards, including
// when a later handler panics. A valid X-Cloud-Trace-Context also seeds a
// remote span context unless one is already present, so entries carry the
// span ID and sampling flag.
func Middleware(logger logging.TraceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}
		ctx, _ := gcpkit.ContextWithXCloudTrace(c.Request.Context(), c.GetHeader(gcpkit.XCloudTraceContextHeader))
		traceID, _ := logging.ExtractTraceID(c.Request)
		_ = logging.RunWithTrace(ctx, logger, traceID, func(ctx context.Context) error {
			c.Request = c.Request.WithContext(ctx)
			c.Set(ContextKey, logger)
			c.Next()
			return nil
		})
	}
}

// Logger returns the logger stored by Middleware.
func Logger(c *gin.Context) (logging.TraceLogger, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	logger, ok := v.(logging.TraceLogger)
	return logger, ok
}

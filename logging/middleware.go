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
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pjscruggs/gcpkit"
)

// TraceLogger is the logger collaborator of the middleware. *Logger
// implements it.
type TraceLogger interface {
	// AddTraceID associates traceID with the request carried by ctx and
	// returns the context to use downstream.
	AddTraceID(ctx context.Context, traceID string) context.Context
	// DeleteTraceID releases the association made for ctx.
	DeleteTraceID(ctx context.Context)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	otel          bool
	otelOptions   []otelhttp.Option
	operationName string
	seedSpan      bool
}

// WithOTel wraps the middleware in otelhttp so each request gets a server
// span. The span context is then visible to the logger for span IDs.
func WithOTel(opts ...otelhttp.Option) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.otel = true
		c.otelOptions = append(c.otelOptions, opts...)
	}
}

// WithOperationName sets the otelhttp operation name. Defaults to
// "gcpkit.http.server".
func WithOperationName(name string) MiddlewareOption {
	return func(c *middlewareConfig) { c.operationName = name }
}

// WithSpanContextFromHeader controls whether a remote span context is
// derived from X-Cloud-Trace-Context when the request has none. Enabled by
// default.
func WithSpanContextFromHeader(enabled bool) MiddlewareOption {
	return func(c *middlewareConfig) { c.seedSpan = enabled }
}

// Middleware returns net/http middleware that, for every request, binds
// logger to the request context, associates the request's Cloud Trace ID
// with it, and calls next. The association is released when next returns or
// panics. Panics are not recovered. A nil logger returns next unchanged.
func Middleware(logger TraceLogger, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		operationName: "gcpkit.http.server",
		seedSpan:      true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		if logger == nil {
			return next
		}
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cfg.seedSpan {
				ctx, _ = gcpkit.ContextWithXCloudTrace(ctx, r.Header.Get(gcpkit.XCloudTraceContextHeader))
			}
			traceID, _ := ExtractTraceID(r)
			_ = RunWithTrace(ctx, logger, traceID, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
		})
		if !cfg.otel {
			return handler
		}
		return otelhttp.NewHandler(handler, cfg.operationName, cfg.otelOptions...)
	}
}

// RunWithTrace applies the middleware lifecycle to fn: it binds logger to
// ctx, associates traceID, calls fn and always releases the association.
// fn's error is returned unchanged and panics propagate.
func RunWithTrace(ctx context.Context, logger TraceLogger, traceID string, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return fn(ctx)
	}
	ctx = ContextWithLogger(ctx, logger)
	ctx = logger.AddTraceID(ctx, traceID)
	defer logger.DeleteTraceID(ctx)
	return fn(ctx)
}

// ExtractTraceID returns the trace ID portion of the request's
// X-Cloud-Trace-Context header, the text before the first "/". A missing or
// empty header yields false.
func ExtractTraceID(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	return gcpkit.TraceIDFromHeader(r.Header.Get(gcpkit.XCloudTraceContextHeader))
}

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

package logginggrpc

import (
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the interceptors and ServerOptions.
type Option func(*config)

type config struct {
	enableOTel     bool
	seedSpan       bool
	tracerProvider trace.TracerProvider
	propagators    propagation.TextMapPropagator
}

func applyOptions(opts []Option) *config {
	cfg := &config{enableOTel: true, seedSpan: true}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithOTel toggles the otelgrpc stats handler installed by ServerOptions.
// Enabled by default.
func WithOTel(enabled bool) Option {
	return func(c *config) { c.enableOTel = enabled }
}

// WithTracerProvider sets the tracer provider used by otelgrpc.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = tp }
}

// WithPropagators sets the propagators used by otelgrpc.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(c *config) { c.propagators = p }
}

// WithSpanContextFromMetadata controls whether a remote span context is
// derived from x-cloud-trace-context when the call has none. Enabled by
// default.
func WithSpanContextFromMetadata(enabled bool) Option {
	return func(c *config) { c.seedSpan = enabled }
}

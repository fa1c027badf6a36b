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

package pubsub

import (
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/api/option"
)

// Option configures a SubscriberClient or trace propagation helpers.
type Option func(*config)

type config struct {
	clientOptions []option.ClientOption
	diagnostics   *slog.Logger
	metrics       *Metrics

	propagators          propagation.TextMapPropagator
	propagateBaggage     bool
	googClientExtraction bool
	googClientInjection  bool
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		diagnostics:      slog.Default(),
		propagateBaggage: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithClientOptions passes options to the generated subscriber client, for
// example option.WithEndpoint for the emulator.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *config) { c.clientOptions = append(c.clientOptions, opts...) }
}

// WithDiagnosticsLogger routes client lifecycle messages to logger. Pass nil
// to silence them.
func WithDiagnosticsLogger(logger *slog.Logger) Option {
	return func(c *config) { c.diagnostics = logger }
}

// WithMetrics records pull, acknowledge and delay outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithPropagators overrides the global OpenTelemetry propagator used to read
// and write message attributes.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(c *config) { c.propagators = p }
}

// WithBaggage controls whether the baggage attribute is propagated.
// Enabled by default.
func WithBaggage(enabled bool) Option {
	return func(c *config) { c.propagateBaggage = enabled }
}

// WithGoogClientExtraction also reads googclient_traceparent, the attribute
// written by the Pub/Sub client libraries' built-in tracing.
func WithGoogClientExtraction(enabled bool) Option {
	return func(c *config) { c.googClientExtraction = enabled }
}

// WithGoogClientInjection also writes googclient_traceparent.
func WithGoogClientInjection(enabled bool) Option {
	return func(c *config) { c.googClientInjection = enabled }
}

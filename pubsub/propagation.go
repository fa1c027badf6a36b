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
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// googclientPrefix marks attributes written by the client libraries' own
// tracing, for example googclient_traceparent.
const googclientPrefix = "googclient_"

// InjectAttributes writes the trace context of ctx into attrs, allocating
// the map when needed, and returns it. Use it when building messages to
// publish.
func InjectAttributes(ctx context.Context, attrs map[string]string, opts ...Option) map[string]string {
	if ctx == nil {
		return attrs
	}
	cfg := applyOptions(opts)
	prop := cfg.propagator()
	prop.Inject(ctx, attributeCarrier{attrs: &attrs, allowBaggage: cfg.propagateBaggage})
	if cfg.googClientInjection {
		propagation.TraceContext{}.Inject(ctx, attributeCarrier{attrs: &attrs, prefix: googclientPrefix})
	}
	return attrs
}

// ExtractAttributes reads trace context from message attributes into ctx
// and returns the resulting context and span context. The configured
// propagator is tried first, then googclient_traceparent when enabled.
func ExtractAttributes(ctx context.Context, attrs map[string]string, opts ...Option) (context.Context, trace.SpanContext) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(attrs) == 0 {
		return ctx, trace.SpanContextFromContext(ctx)
	}
	cfg := applyOptions(opts)

	extracted := cfg.propagator().Extract(ctx, attributeCarrier{attrs: &attrs, allowBaggage: cfg.propagateBaggage})
	if sc := trace.SpanContextFromContext(extracted); sc.IsValid() {
		return extracted, sc
	}
	if cfg.googClientExtraction {
		extracted = propagation.TraceContext{}.Extract(ctx, attributeCarrier{attrs: &attrs, prefix: googclientPrefix})
		if sc := trace.SpanContextFromContext(extracted); sc.IsValid() {
			return extracted, sc
		}
	}
	return ctx, trace.SpanContextFromContext(ctx)
}

// Context returns ctx extended with the trace context carried in the
// message's attributes.
func (m *ReceivedMessage) Context(ctx context.Context, opts ...Option) context.Context {
	ctx, _ = ExtractAttributes(ctx, m.Attributes(), opts...)
	return ctx
}

func (c *config) propagator() propagation.TextMapPropagator {
	if c.propagators != nil {
		return c.propagators
	}
	return otel.GetTextMapPropagator()
}

// attributeCarrier adapts message attributes to propagation.TextMapCarrier.
// Keys are lower-cased and optionally prefixed. Set allocates the map on
// first write. Get never writes.
type attributeCarrier struct {
	attrs        *map[string]string
	prefix       string
	allowBaggage bool
}

func (c attributeCarrier) key(k string) (string, bool) {
	k = strings.ToLower(k)
	if k == "baggage" && !c.allowBaggage {
		return "", false
	}
	return c.prefix + k, true
}

// Get returns the attribute for key.
func (c attributeCarrier) Get(key string) string {
	k, ok := c.key(key)
	if !ok || *c.attrs == nil {
		return ""
	}
	return (*c.attrs)[k]
}

// Set stores value under key.
func (c attributeCarrier) Set(key, value string) {
	k, ok := c.key(key)
	if !ok {
		return
	}
	if *c.attrs == nil {
		*c.attrs = make(map[string]string)
	}
	(*c.attrs)[k] = value
}

// Keys lists the keys Get resolves: attributes under the carrier's prefix,
// with the prefix removed and baggage hidden unless allowed.
func (c attributeCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.attrs))
	for k := range *c.attrs {
		if !strings.HasPrefix(k, c.prefix) {
			continue
		}
		k = strings.TrimPrefix(k, c.prefix)
		if k == "baggage" && !c.allowBaggage {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

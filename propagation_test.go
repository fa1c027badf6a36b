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

package gcpkit

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// resetPropagatorForTest restores the global propagator and the once guard
// when the test ends.
func resetPropagatorForTest(tb testing.TB) {
	tb.Helper()
	original := otel.GetTextMapPropagator()
	installPropagatorOnce = sync.Once{}
	tb.Cleanup(func() {
		otel.SetTextMapPropagator(original)
		installPropagatorOnce = sync.Once{}
	})
}

// TestPropagatorExtractsCloudTrace reads the legacy Google header.
func TestPropagatorExtractsCloudTrace(t *testing.T) {
	header := http.Header{}
	header.Set(XCloudTraceContextHeader, "105445aa7843bc8bf206b12000100000/10;o=1")
	ctx := Propagator().Extract(context.Background(), propagation.HeaderCarrier(header))
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		t.Fatalf("expected X-Cloud-Trace-Context extraction")
	}
	if sc.TraceID().String() != "105445aa7843bc8bf206b12000100000" {
		t.Fatalf("unexpected trace ID %s", sc.TraceID())
	}
	if !sc.IsSampled() {
		t.Fatalf("expected sampled span context")
	}
}

// TestPropagatorInjectsW3COnly writes traceparent but not X-Cloud-Trace-Context.
func TestPropagatorInjectsW3COnly(t *testing.T) {
	tc := TraceContext{TraceID: "105445aa7843bc8bf206b12000100000", SpanID: "10", Sampled: true}
	sc, ok := tc.SpanContext()
	if !ok {
		t.Fatalf("expected valid span context")
	}
	header := http.Header{}
	Propagator().Inject(trace.ContextWithRemoteSpanContext(context.Background(), sc), propagation.HeaderCarrier(header))
	if got := header.Get("traceparent"); got != "00-105445aa7843bc8bf206b12000100000-000000000000000a-01" {
		t.Fatalf("traceparent = %q", got)
	}
	if got := header.Get(XCloudTraceContextHeader); got != "" {
		t.Fatalf("X-Cloud-Trace-Context = %q, want empty", got)
	}
}

// TestInstallPropagatorRunsOnce replaces the global propagator a single time.
func TestInstallPropagatorRunsOnce(t *testing.T) {
	resetPropagatorForTest(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if !InstallPropagator() {
		t.Fatalf("first InstallPropagator() = false")
	}
	if _, still := otel.GetTextMapPropagator().(propagation.TraceContext); still {
		t.Fatalf("global propagator was not replaced")
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})
	if InstallPropagator() {
		t.Fatalf("second InstallPropagator() = true")
	}
	if _, still := otel.GetTextMapPropagator().(propagation.TraceContext); !still {
		t.Fatalf("second call replaced the global propagator")
	}
}

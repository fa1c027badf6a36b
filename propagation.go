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
	"sync"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Propagator returns the text map propagator shared by the gcpkit packages.
// It reads X-Cloud-Trace-Context, W3C traceparent/tracestate and baggage on
// ingress. X-Cloud-Trace-Context is never written, so outbound requests and
// Pub/Sub attributes carry W3C headers only.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		gcppropagator.CloudTraceOneWayPropagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

var installPropagatorOnce sync.Once

// InstallPropagator makes Propagator the global OpenTelemetry propagator.
// Only the first call in a process changes anything; it reports whether this
// call did.
func InstallPropagator() bool {
	installed := false
	installPropagatorOnce.Do(func() {
		otel.SetTextMapPropagator(Propagator())
		installed = true
	})
	return installed
}

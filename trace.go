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
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// XCloudTraceContextHeader is the Google Cloud legacy trace propagation header.
// Its value has the form "TRACE_ID/SPAN_ID;o=OPTIONS".
const XCloudTraceContextHeader = "X-Cloud-Trace-Context"

// Keys recognized by Google Cloud Logging for trace correlation when entries
// are written as structured JSON.
const (
	// TraceKey is the field name for the formatted trace name.
	// The value must be "projects/PROJECT_ID/traces/TRACE_ID".
	TraceKey = "logging.googleapis.com/trace"
	// SpanKey is the field name for the hex span ID.
	SpanKey = "logging.googleapis.com/spanId"
	// SampledKey is the field name for the boolean sampling decision.
	SampledKey = "logging.googleapis.com/trace_sampled"
)

var randRead = rand.Read

// TraceContext is the decoded form of an X-Cloud-Trace-Context header value.
// SpanID keeps the decimal representation used on the wire.
type TraceContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// TraceIDFromHeader returns the portion of an X-Cloud-Trace-Context value that
// precedes the first "/". It reports false for an empty header or an empty
// trace ID segment. Nothing after the slash is inspected, so a header without
// a span segment is returned whole.
func TraceIDFromHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	traceID, _, _ := strings.Cut(header, "/")
	if traceID == "" {
		return "", false
	}
	return traceID, true
}

// ParseXCloudTraceContext splits an X-Cloud-Trace-Context value into its trace
// ID, span ID and sampling flag. It never fails on malformed input; ok is
// false only when no trace ID can be found.
func ParseXCloudTraceContext(header string) (tc TraceContext, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return TraceContext{}, false
	}

	idPart, options, _ := strings.Cut(header, ";")
	idPart = strings.TrimSpace(idPart)
	if idPart == "" {
		return TraceContext{}, false
	}

	traceID, spanID, _ := strings.Cut(idPart, "/")
	tc.TraceID = strings.TrimSpace(traceID)
	tc.SpanID = strings.TrimSpace(spanID)
	tc.Sampled = strings.Contains(options, "o=1")
	if tc.TraceID == "" {
		return TraceContext{}, false
	}
	return tc, true
}

// SpanContext converts tc into a remote OpenTelemetry span context. The trace
// ID must be 32 hex characters; a missing or zero span ID is replaced with a
// random one so the result is valid.
func (tc TraceContext) SpanContext() (trace.SpanContext, bool) {
	traceID, err := trace.TraceIDFromHex(tc.TraceID)
	if err != nil || !traceID.IsValid() {
		return trace.SpanContext{}, false
	}

	var spanID trace.SpanID
	if tc.SpanID != "" {
		if v, err := strconv.ParseUint(tc.SpanID, 10, 64); err == nil {
			binary.BigEndian.PutUint64(spanID[:], v)
		}
	}
	if !spanID.IsValid() {
		if _, err := randRead(spanID[:]); err != nil {
			return trace.SpanContext{}, false
		}
	}

	var flags trace.TraceFlags
	if tc.Sampled {
		flags = trace.FlagsSampled
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	if !sc.IsValid() {
		return trace.SpanContext{}, false
	}
	return sc, true
}

// ContextWithXCloudTrace returns ctx carrying the remote span context decoded
// from header. ctx is returned unchanged when it already holds a valid span
// context or the header cannot be decoded.
func ContextWithXCloudTrace(ctx context.Context, header string) (context.Context, bool) {
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, false
	}
	tc, ok := ParseXCloudTraceContext(header)
	if !ok {
		return ctx, false
	}
	sc, ok := tc.SpanContext()
	if !ok {
		return ctx, false
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc), true
}

// FormatTraceResource returns a fully-qualified Cloud Trace resource name:
//
//	projects/<projectID>/traces/<traceID>
//
// An empty projectID yields the raw trace ID.
func FormatTraceResource(projectID, rawTraceID string) string {
	if projectID == "" {
		return rawTraceID
	}
	return fmt.Sprintf("projects/%s/traces/%s", projectID, rawTraceID)
}

// SpanIDHexToDecimal converts a 16-char hex span ID to the unsigned decimal
// form used by the X-Cloud-Trace-Context SPAN_ID field.
func SpanIDHexToDecimal(spanIDHex string) (string, bool) {
	ui, err := strconv.ParseUint(spanIDHex, 16, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(ui, 10), true
}

// BuildXCloudTraceContext builds an X-Cloud-Trace-Context value from raw hex
// IDs and a sampled flag:
//
//	TRACE_ID[/SPAN_ID];o=TRACE_TRUE
//
// The "/SPAN_ID" portion is omitted when spanIDHex is empty or invalid.
func BuildXCloudTraceContext(rawTraceID, spanIDHex string, sampled bool) string {
	val := rawTraceID
	if dec, ok := SpanIDHexToDecimal(spanIDHex); ok && dec != "" {
		val = val + "/" + dec
	}
	if sampled {
		return val + ";o=1"
	}
	return val + ";o=0"
}

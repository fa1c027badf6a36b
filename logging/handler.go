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
	"encoding"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	cloudlogging "cloud.google.com/go/logging"
	loggingpb "cloud.google.com/go/logging/apiv2/loggingpb"
	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/gcpkit"
)

// LabelsGroup is the attribute group whose members become entry labels
// instead of payload fields.
const LabelsGroup = "logging.googleapis.com/labels"

// groupedAttr holds an attribute along with its group context.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// entryHandler converts slog records into Cloud Logging entries. Handler
// state is immutable; WithAttrs and WithGroup return copies.
type entryHandler struct {
	writer       EntryWriter
	leveler      slog.Leveler
	traces       *traceTable
	projectID    string
	commonLabels map[string]string
	addSource    bool

	groupedAttrs []groupedAttr
	groups       []string
}

// Enabled reports whether level meets the handler's minimum.
func (h *entryHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.leveler != nil {
		min = h.leveler.Level()
	}
	return level >= min
}

// Handle builds an entry from r and passes it to the writer.
func (h *entryHandler) Handle(ctx context.Context, r slog.Record) error {
	payload, labels := h.buildPayload(r)
	if r.Message != "" {
		payload[fieldMessage] = r.Message
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	entry := cloudlogging.Entry{
		Timestamp:      ts,
		Severity:       severityForLevel(r.Level),
		Payload:        payload,
		Labels:         labels,
		SourceLocation: h.sourceLocation(r),
	}
	entry.Trace, entry.SpanID, entry.TraceSampled = h.traceFields(ctx)

	h.writer.Log(entry)
	return nil
}

// traceFields prefers the trace ID bound to ctx by the middleware and falls
// back to an OpenTelemetry span context. The span ID is only reported when
// the span belongs to the same trace.
func (h *entryHandler) traceFields(ctx context.Context) (string, string, bool) {
	if ctx == nil {
		return "", "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	traceID, ok := h.traces.lookup(ctx)
	if !ok {
		if !sc.IsValid() {
			return "", "", false
		}
		traceID = sc.TraceID().String()
	}
	resource := gcpkit.FormatTraceResource(h.projectID, traceID)
	if sc.IsValid() && sc.TraceID().String() == traceID {
		return resource, sc.SpanID().String(), sc.IsSampled()
	}
	return resource, "", false
}

// buildPayload walks handler and record attributes into a nested payload
// map and a flat label map.
func (h *entryHandler) buildPayload(r slog.Record) (map[string]any, map[string]string) {
	payload := make(map[string]any)
	var labels map[string]string
	if len(h.commonLabels) > 0 {
		labels = make(map[string]string, len(h.commonLabels))
		for k, v := range h.commonLabels {
			labels[k] = v
		}
	}

	var walk func(ga groupedAttr)
	walk = func(ga groupedAttr) {
		a := ga.attr
		a.Value = a.Value.Resolve()
		if a.Value.Kind() == slog.KindGroup {
			path := ga.groups
			if a.Key != "" {
				path = append(append([]string(nil), ga.groups...), a.Key)
			}
			for _, child := range a.Value.Group() {
				walk(groupedAttr{groups: path, attr: child})
			}
			return
		}
		if a.Key == "" {
			return
		}
		if inLabelsGroup(ga.groups) {
			if labels == nil {
				labels = make(map[string]string)
			}
			labels[a.Key] = labelString(a.Value)
			return
		}
		nestedMap(payload, ga.groups)[a.Key] = payloadValue(a.Value)
	}

	for _, ga := range h.groupedAttrs {
		walk(ga)
	}
	r.Attrs(func(a slog.Attr) bool {
		walk(groupedAttr{groups: h.groups, attr: a})
		return true
	})
	return payload, labels
}

// sourceLocation resolves the record's call site when enabled.
func (h *entryHandler) sourceLocation(r slog.Record) *loggingpb.LogEntrySourceLocation {
	if !h.addSource || r.PC == 0 {
		return nil
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.Function == "" {
		return nil
	}
	return &loggingpb.LogEntrySourceLocation{
		File:     frame.File,
		Line:     int64(frame.Line),
		Function: frame.Function,
	}
}

// WithAttrs returns a handler that adds attrs to every entry.
func (h *entryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		h2.groupedAttrs = append(h2.groupedAttrs, groupedAttr{groups: h.groups, attr: a})
	}
	return h2
}

// WithGroup returns a handler that nests later attributes under name.
func (h *entryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *entryHandler) clone() *entryHandler {
	h2 := *h
	h2.groupedAttrs = append([]groupedAttr(nil), h.groupedAttrs...)
	h2.groups = append([]string(nil), h.groups...)
	return &h2
}

func inLabelsGroup(groups []string) bool {
	for _, g := range groups {
		if g == LabelsGroup {
			return true
		}
	}
	return false
}

// nestedMap navigates or creates nested maps per group path.
func nestedMap(base map[string]any, groups []string) map[string]any {
	curr := base
	for _, g := range groups {
		if g == "" {
			continue
		}
		if m, ok := curr[g].(map[string]any); ok {
			curr = m
			continue
		}
		m := make(map[string]any)
		curr[g] = m
		curr = m
	}
	return curr
}

// payloadValue converts a resolved slog value into something encoding/json
// and structpb both accept.
func payloadValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	}
	switch x := v.Any().(type) {
	case nil:
		return nil
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	}
	return v.Any()
}

func labelString(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return fmt.Sprint(payloadValue(v))
}

var _ slog.Handler = (*entryHandler)(nil)

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
	"io"
	"log/slog"
	"os"
	"sync"

	"google.golang.org/genproto/googleapis/api/monitoredres"

	"github.com/pjscruggs/gcpkit"
)

// traceBinding is the per-request key of a traceTable entry. Each call to
// AddTraceID allocates a new one; the struct is not zero-sized so distinct
// allocations never share an address.
type traceBinding struct{ _ byte }

type traceBindingKey struct{}

// traceTable associates request contexts with Cloud Trace IDs.
type traceTable struct {
	m sync.Map // *traceBinding -> string
}

func (t *traceTable) add(ctx context.Context, traceID string) context.Context {
	b := &traceBinding{}
	t.m.Store(b, traceID)
	return context.WithValue(ctx, traceBindingKey{}, b)
}

func (t *traceTable) remove(ctx context.Context) {
	if b, ok := bindingFromContext(ctx); ok {
		t.m.Delete(b)
	}
}

func (t *traceTable) lookup(ctx context.Context) (string, bool) {
	b, ok := bindingFromContext(ctx)
	if !ok {
		return "", false
	}
	v, ok := t.m.Load(b)
	if !ok {
		return "", false
	}
	id := v.(string)
	return id, id != ""
}

// size reports the number of live bindings.
func (t *traceTable) size() int {
	n := 0
	t.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func bindingFromContext(ctx context.Context) (*traceBinding, bool) {
	if ctx == nil {
		return nil, false
	}
	b, ok := ctx.Value(traceBindingKey{}).(*traceBinding)
	return b, ok && b != nil
}

// installPropagator is replaced in tests to keep the global propagator intact.
var installPropagator = gcpkit.InstallPropagator

// Logger is a *slog.Logger that writes Cloud Logging entries and tracks the
// Cloud Trace ID of each in-flight request.
type Logger struct {
	*slog.Logger

	traces    *traceTable
	levelVar  *slog.LevelVar
	writer    EntryWriter
	closer    io.Closer
	projectID string
	logName   string
	resource  *monitoredres.MonitoredResource

	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.Mutex
}

// NewLogger builds a Logger from the GCPKIT_* environment and opts. Options
// take precedence over the environment. For the gcp target a Cloud Logging
// client is created and must be released with Close.
func NewLogger(ctx context.Context, opts ...Option) (*Logger, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	o := options{diagnostics: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	applyConfig(&o, cfg)

	levelVar := new(slog.LevelVar)
	levelVar.Set(*o.level)

	l := &Logger{
		traces:    &traceTable{},
		levelVar:  levelVar,
		projectID: gcpkit.ResolveProjectID(*o.projectID),
		logName:   *o.logName,
		resource:  o.resource,
	}

	switch {
	case o.entryWriter != nil:
		l.writer = o.entryWriter
	case o.writer != nil:
		l.writer = newDiagnosticJSONWriter(o.writer, o.diagnostics)
	case *o.target == LogTargetStdout:
		l.writer = newDiagnosticJSONWriter(os.Stdout, o.diagnostics)
	case *o.target == LogTargetStderr:
		l.writer = newDiagnosticJSONWriter(os.Stderr, o.diagnostics)
	default:
		if l.resource == nil {
			l.resource = DefaultMonitoredResource()
		}
		cm := &clientManager{
			projectID:   l.projectID,
			logName:     l.logName,
			resource:    l.resource,
			clientOpts:  o.clientOptions,
			loggerOpts:  o.loggerOptions,
			timeout:     o.initTimeout,
			diagnostics: o.diagnostics,
		}
		if err := cm.initialize(); err != nil {
			return nil, err
		}
		l.writer = cm.logger
		l.closer = cm
	}

	l.Logger = slog.New(&entryHandler{
		writer:       l.writer,
		leveler:      levelVar,
		traces:       l.traces,
		projectID:    l.projectID,
		commonLabels: o.commonLabels,
		addSource:    *o.addSource,
	})
	if *o.autoSetProp {
		installPropagator()
	}
	return l, nil
}

// applyConfig fills option fields left unset from cfg.
func applyConfig(o *options, cfg Config) {
	if o.target == nil {
		o.target = &cfg.Target
	}
	if o.logName == nil {
		o.logName = &cfg.LogName
	}
	if o.projectID == nil {
		o.projectID = &cfg.ProjectID
	}
	if o.level == nil {
		l := cfg.Level.Level()
		o.level = &l
	}
	if o.addSource == nil {
		o.addSource = &cfg.AddSource
	}
	if o.autoSetProp == nil {
		enabled := !cfg.DisablePropagatorAutoSet
		o.autoSetProp = &enabled
	}
	if o.resource == nil && cfg.ResourceType != "" && cfg.ResourceLabels != nil {
		o.resource = BuildMonitoredResource(cfg.ResourceType, cfg.ResourceLabels)
	}
	if len(cfg.CommonLabels) > 0 {
		merged := make(map[string]string, len(cfg.CommonLabels)+len(o.commonLabels))
		for k, v := range cfg.CommonLabels {
			merged[k] = v
		}
		for k, v := range o.commonLabels {
			merged[k] = v
		}
		o.commonLabels = merged
	}
}

func newDiagnosticJSONWriter(w io.Writer, diagnostics *slog.Logger) *JSONEntryWriter {
	jw := NewJSONEntryWriter(w)
	jw.OnError = func(err error) {
		logDiagnostic(diagnostics, slog.LevelError, "Failed to write log entry", slog.Any("error", err))
	}
	return jw
}

// AddTraceID associates traceID with the request carried by ctx and returns
// the context to pass downstream. Entries logged with that context carry the
// trace. An empty traceID binds the request without a trace.
func (l *Logger) AddTraceID(ctx context.Context, traceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.traces.add(ctx, traceID)
}

// DeleteTraceID removes the association made by AddTraceID for ctx. It is a
// no-op for contexts without one.
func (l *Logger) DeleteTraceID(ctx context.Context) {
	l.traces.remove(ctx)
}

// TraceID returns the trace ID associated with ctx, if any.
func (l *Logger) TraceID(ctx context.Context) (string, bool) {
	return l.traces.lookup(ctx)
}

// ProjectID returns the project used for trace resource names.
func (l *Logger) ProjectID() string { return l.projectID }

// LogName returns the Cloud Logging log ID.
func (l *Logger) LogName() string { return l.logName }

// Resource returns the monitored resource attached to entries. It is nil for
// JSON output unless one was configured.
func (l *Logger) Resource() *monitoredres.MonitoredResource { return l.resource }

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level slog.Level) { l.levelVar.Set(level) }

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level { return l.levelVar.Level() }

// Flush sends buffered entries.
func (l *Logger) Flush() error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrLoggerClosed
	}
	return l.writer.Flush()
}

// Close flushes and releases the Cloud Logging client. It is idempotent.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		if l.closer != nil {
			l.closeErr = l.closer.Close()
			return
		}
		l.closeErr = l.writer.Flush()
	})
	return l.closeErr
}

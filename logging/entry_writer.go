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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	cloudlogging "cloud.google.com/go/logging"
)

// EntryWriter receives fully built Cloud Logging entries. A
// *cloud.google.com/go/logging.Logger satisfies it.
type EntryWriter interface {
	Log(cloudlogging.Entry)
	Flush() error
}

// Structured logging field names understood by the Cloud Logging agents.
const (
	fieldSeverity       = "severity"
	fieldMessage        = "message"
	fieldTime           = "time"
	fieldTrace          = "logging.googleapis.com/trace"
	fieldSpanID         = "logging.googleapis.com/spanId"
	fieldTraceSampled   = "logging.googleapis.com/trace_sampled"
	fieldLabels         = "logging.googleapis.com/labels"
	fieldSourceLocation = "logging.googleapis.com/sourceLocation"
)

// JSONEntryWriter writes each entry as one line of structured JSON in the
// format Cloud Run, GKE and the Ops Agent parse from stdout.
type JSONEntryWriter struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
	// OnError is called when an entry cannot be encoded or written.
	OnError func(error)
}

// NewJSONEntryWriter returns a JSONEntryWriter writing to w.
func NewJSONEntryWriter(w io.Writer) *JSONEntryWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONEntryWriter{w: w, enc: enc}
}

// Log encodes e as a single JSON line.
func (j *JSONEntryWriter) Log(e cloudlogging.Entry) {
	line := make(map[string]any)
	if payload, ok := e.Payload.(map[string]any); ok {
		for k, v := range payload {
			line[k] = v
		}
	} else if e.Payload != nil {
		line[fieldMessage] = e.Payload
	}

	line[fieldSeverity] = severityName(e.Severity)
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line[fieldTime] = ts.UTC().Format(time.RFC3339Nano)
	if e.Trace != "" {
		line[fieldTrace] = e.Trace
		if e.SpanID != "" {
			line[fieldSpanID] = e.SpanID
		}
		line[fieldTraceSampled] = e.TraceSampled
	}
	if len(e.Labels) > 0 {
		line[fieldLabels] = e.Labels
	}
	if loc := e.SourceLocation; loc != nil {
		line[fieldSourceLocation] = map[string]any{
			"file":     loc.GetFile(),
			"line":     fmt.Sprint(loc.GetLine()),
			"function": loc.GetFunction(),
		}
	}

	j.mu.Lock()
	err := j.enc.Encode(line)
	j.mu.Unlock()
	if err != nil && j.OnError != nil {
		j.OnError(err)
	}
}

// Flush syncs the underlying writer when it supports it. Standard streams
// are not synced; pipes and terminals reject fsync.
func (j *JSONEntryWriter) Flush() error {
	if j.w == os.Stdout || j.w == os.Stderr {
		return nil
	}
	if s, ok := j.w.(interface{ Sync() error }); ok {
		j.mu.Lock()
		defer j.mu.Unlock()
		return s.Sync()
	}
	return nil
}

var _ EntryWriter = (*JSONEntryWriter)(nil)
var _ EntryWriter = (*cloudlogging.Logger)(nil)

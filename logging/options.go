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
	"io"
	"log/slog"
	"time"

	cloudlogging "cloud.google.com/go/logging"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/monitoredres"
)

// Option configures a Logger created by NewLogger.
type Option func(*options)

type options struct {
	target       *LogTarget
	logName      *string
	projectID    *string
	level        *slog.Level
	addSource    *bool
	resource     *monitoredres.MonitoredResource
	commonLabels map[string]string
	autoSetProp  *bool

	writer        io.Writer
	entryWriter   EntryWriter
	clientOptions []option.ClientOption
	loggerOptions []cloudlogging.LoggerOption
	initTimeout   time.Duration
	diagnostics   *slog.Logger
}

// WithTarget overrides GCPKIT_LOG_TARGET.
func WithTarget(target LogTarget) Option {
	return func(o *options) { o.target = &target }
}

// WithLogName sets the Cloud Logging log ID, for example "web_app_log".
func WithLogName(name string) Option {
	return func(o *options) { o.logName = &name }
}

// WithProjectID sets the project entries are written to and trace resource
// names are built for.
func WithProjectID(projectID string) Option {
	return func(o *options) { o.projectID = &projectID }
}

// WithLevel sets the initial minimum level.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		if level == nil {
			return
		}
		l := level.Level()
		o.level = &l
	}
}

// WithSourceLocation toggles source file information on entries.
func WithSourceLocation(enabled bool) Option {
	return func(o *options) { o.addSource = &enabled }
}

// WithMonitoredResource attaches the resource built by
// BuildMonitoredResource(resourceType, labels) to every entry.
func WithMonitoredResource(resourceType string, labels map[string]string) Option {
	return func(o *options) { o.resource = BuildMonitoredResource(resourceType, labels) }
}

// WithCommonLabels adds labels to every entry. Repeated calls merge.
func WithCommonLabels(labels map[string]string) Option {
	return func(o *options) {
		if o.commonLabels == nil {
			o.commonLabels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			o.commonLabels[k] = v
		}
	}
}

// WithWriter writes structured JSON lines to w instead of calling the Cloud
// Logging API.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithEntryWriter routes entries to w. It takes precedence over the target
// and WithWriter.
func WithEntryWriter(w EntryWriter) Option {
	return func(o *options) { o.entryWriter = w }
}

// WithClientOptions passes options to logging.NewClient.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.clientOptions = append(o.clientOptions, opts...) }
}

// WithLoggerOptions passes buffering options such as
// logging.DelayThreshold to the Cloud Logging logger.
func WithLoggerOptions(opts ...cloudlogging.LoggerOption) Option {
	return func(o *options) { o.loggerOptions = append(o.loggerOptions, opts...) }
}

// WithClientInitTimeout bounds Cloud Logging client creation.
func WithClientInitTimeout(d time.Duration) Option {
	return func(o *options) { o.initTimeout = d }
}

// WithDiagnosticsLogger routes the library's own lifecycle messages to
// logger. Pass nil to silence them.
func WithDiagnosticsLogger(logger *slog.Logger) Option {
	return func(o *options) { o.diagnostics = logger }
}

// WithPropagatorAutoSet controls whether NewLogger installs
// gcpkit.Propagator as the global OpenTelemetry propagator. It overrides
// GCPKIT_DISABLE_PROPAGATOR_AUTOSET.
func WithPropagatorAutoSet(enabled bool) Option {
	return func(o *options) { o.autoSetProp = &enabled }
}

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

// Package logging provides a Cloud Logging backed [log/slog] logger and a
// net/http middleware that ties each request's log entries to its Cloud
// Trace.
//
// [Middleware] reads the X-Cloud-Trace-Context header, stores the logger in
// the request context (see [FromContext]) and records the trace ID on the
// [Logger] for the lifetime of the request:
//
//	logger, err := logging.NewLogger(ctx, logging.WithLogName("web_app_log"))
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//	http.Handle("/", logging.Middleware(logger)(app))
//
// Entries written through the request context then carry
// "projects/PROJECT/traces/TRACE_ID" in their trace field.
//
// [BuildMonitoredResource] and [DefaultMonitoredResource] describe where the
// process runs. Detection checks App Engine first, then Kubernetes, then
// Compute Engine, and falls back to "global".
//
// Configuration comes from GCPKIT_* environment variables (see [Config])
// and is overridden by [Option] values.
package logging

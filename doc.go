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

// Package gcpkit holds the Google Cloud plumbing shared by its subpackages:
// X-Cloud-Trace-Context parsing and formatting, project ID detection and the
// OpenTelemetry propagator setup.
//
// # Subpackages
//
//   - [github.com/pjscruggs/gcpkit/logging] provides a Cloud Logging backed
//     [log/slog] logger, a net/http middleware that binds a request-scoped
//     logger and Cloud Trace ID, and monitored resource detection.
//   - [github.com/pjscruggs/gcpkit/logginggrpc] applies the same trace
//     binding to gRPC servers.
//   - [github.com/pjscruggs/gcpkit/logginggin] adapts the middleware to gin.
//   - [github.com/pjscruggs/gcpkit/pubsub] wraps pulled Pub/Sub messages so
//     they can be acknowledged or delayed through their subscription.
//
// # Quick Start
//
//	logger, err := logging.NewLogger(ctx, logging.WithLogName("web_app_log"))
//	if err != nil {
//	    log.Fatalf("create logger: %v", err)
//	}
//	defer logger.Close()
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).InfoContext(r.Context(), "hello")
//	})
//	http.ListenAndServe(":8080", logging.Middleware(logger)(mux))
package gcpkit

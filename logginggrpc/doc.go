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

// Package logginggrpc applies the logging middleware lifecycle to gRPC
// servers: each call binds the logger and the Cloud Trace ID found in the
// x-cloud-trace-context metadata, and releases the association when the
// handler returns.
//
//	server := grpc.NewServer(logginggrpc.ServerOptions(logger)...)
package logginggrpc

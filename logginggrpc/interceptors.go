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

package logginggrpc

import (
	"context"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/pjscruggs/gcpkit"
	"github.com/pjscruggs/gcpkit/logging"
)

// MetadataKey is the gRPC metadata key carrying X-Cloud-Trace-Context.
var MetadataKey = strings.ToLower(gcpkit.XCloudTraceContextHeader)

// TraceIDFromMetadata returns the trace ID portion of the first
// x-cloud-trace-context value in md.
func TraceIDFromMetadata(md metadata.MD) (string, bool) {
	values := md.Get(MetadataKey)
	if len(values) == 0 {
		return "", false
	}
	return gcpkit.TraceIDFromHeader(values[0])
}

// prepare extracts the trace ID and optionally seeds a span context.
func prepare(ctx context.Context, cfg *config) (context.Context, string) {
	md, _ := metadata.FromIncomingContext(ctx)
	traceID, _ := TraceIDFromMetadata(md)
	if cfg.seedSpan {
		if values := md.Get(MetadataKey); len(values) > 0 {
			ctx, _ = gcpkit.ContextWithXCloudTrace(ctx, values[0])
		}
	}
	return ctx, traceID
}

// UnaryServerInterceptor binds logger and the call's trace ID for the
// duration of the handler. The handler's response and error are returned
// unchanged.
func UnaryServerInterceptor(logger logging.TraceLogger, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, traceID := prepare(ctx, cfg)
		var resp any
		err := logging.RunWithTrace(ctx, logger, traceID, func(ctx context.Context) error {
			var err error
			resp, err = handler(ctx, req)
			return err
		})
		return resp, err
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor. The handler sees the bound context through
// ServerStream.Context.
func StreamServerInterceptor(logger logging.TraceLogger, opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, traceID := prepare(ss.Context(), cfg)
		return logging.RunWithTrace(ctx, logger, traceID, func(ctx context.Context) error {
			return handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
		})
	}
}

// ServerOptions returns grpc.ServerOptions installing the otelgrpc stats
// handler (unless disabled) and both interceptors.
func ServerOptions(logger logging.TraceLogger, opts ...Option) []grpc.ServerOption {
	cfg := applyOptions(opts)
	var serverOpts []grpc.ServerOption
	if cfg.enableOTel {
		serverOpts = append(serverOpts, grpc.StatsHandler(otelgrpc.NewServerHandler(statsHandlerOptions(cfg)...)))
	}
	return append(serverOpts,
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(logger, opts...)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(logger, opts...)),
	)
}

func statsHandlerOptions(cfg *config) []otelgrpc.Option {
	var opts []otelgrpc.Option
	if cfg.tracerProvider != nil {
		opts = append(opts, otelgrpc.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.propagators != nil {
		opts = append(opts, otelgrpc.WithPropagators(cfg.propagators))
	}
	return opts
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the context carrying the bound logger and trace.
func (s *serverStream) Context() context.Context {
	return s.ctx
}

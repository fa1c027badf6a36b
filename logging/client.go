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
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	cloudlogging "cloud.google.com/go/logging"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/monitoredres"

	"github.com/pjscruggs/gcpkit"
)

const defaultClientInitTimeout = 10 * time.Second

// cloudClient is the part of *cloudlogging.Client the manager uses.
type cloudClient interface {
	Logger(logID string, opts ...cloudlogging.LoggerOption) *cloudlogging.Logger
	Close() error
}

// newCloudClient creates the Cloud Logging client. Tests replace it.
var newCloudClient = func(ctx context.Context, projectID string, onError func(error), opts ...option.ClientOption) (cloudClient, error) {
	c, err := cloudlogging.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	c.OnError = onError
	return c, nil
}

// clientManager owns the Cloud Logging client backing a Logger.
type clientManager struct {
	projectID   string
	logName     string
	resource    *monitoredres.MonitoredResource
	clientOpts  []option.ClientOption
	loggerOpts  []cloudlogging.LoggerOption
	timeout     time.Duration
	diagnostics *slog.Logger

	client    cloudClient
	logger    *cloudlogging.Logger
	closeOnce sync.Once
	closeErr  error
}

// initialize creates the client and the named logger.
func (cm *clientManager) initialize() error {
	if cm.projectID == "" {
		return fmt.Errorf("cloud logging client: %w", ErrProjectIDMissing)
	}
	timeout := cm.timeout
	if timeout <= 0 {
		timeout = defaultClientInitTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithUserAgent(gcpkit.UserAgent())}, cm.clientOpts...)
	onError := func(err error) {
		logDiagnostic(cm.diagnostics, slog.LevelError, "Cloud Logging background error", slog.Any("error", err))
	}
	client, err := newCloudClient(ctx, cm.projectID, onError, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("cloud logging client creation timed out after %v: %w", timeout, ErrClientInitializationFailed)
		}
		return fmt.Errorf("cloud logging client creation failed: %w: %w", ErrClientInitializationFailed, err)
	}

	loggerOpts := make([]cloudlogging.LoggerOption, 0, len(cm.loggerOpts)+1)
	if cm.resource != nil {
		loggerOpts = append(loggerOpts, cloudlogging.CommonResource(cm.resource))
	}
	loggerOpts = append(loggerOpts, cm.loggerOpts...)

	logID := url.PathEscape(cm.logName)
	logger := client.Logger(logID, loggerOpts...)
	if logger == nil {
		_ = client.Close()
		return fmt.Errorf("client.Logger(%q) returned nil: %w", logID, ErrClientInitializationFailed)
	}
	cm.client = client
	cm.logger = logger
	logDiagnostic(cm.diagnostics, slog.LevelDebug, "Cloud Logging client initialized",
		slog.String("project_id", cm.projectID),
		slog.String("log_name", cm.logName),
	)
	return nil
}

// Close flushes the logger and closes the client. It is idempotent and
// reports the client close error in preference to a flush error.
func (cm *clientManager) Close() error {
	cm.closeOnce.Do(func() {
		if cm.client == nil {
			return
		}
		if cm.logger != nil {
			if err := cm.logger.Flush(); err != nil {
				cm.closeErr = err
				logDiagnostic(cm.diagnostics, slog.LevelWarn, "Error flushing logs during close", slog.Any("error", err))
			}
		}
		if err := cm.client.Close(); err != nil {
			cm.closeErr = err
			logDiagnostic(cm.diagnostics, slog.LevelError, "Error closing Cloud Logging client", slog.Any("error", err))
			return
		}
		logDiagnostic(cm.diagnostics, slog.LevelDebug, "Cloud Logging client closed")
	})
	return cm.closeErr
}

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

package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	pubsubapi "cloud.google.com/go/pubsub/apiv1"
	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/pjscruggs/gcpkit"
)

// Subscription acknowledges or delays messages by ack ID. SubscriberClient
// implements it; tests and alternative transports may supply their own.
type Subscription interface {
	Acknowledge(ctx context.Context, ackIDs ...string) error
	Delay(ctx context.Context, newDeadlineSeconds int, ackIDs ...string) error
}

// subscriberAPI is the part of the generated subscriber client used here.
type subscriberAPI interface {
	Pull(ctx context.Context, req *pubsubpb.PullRequest, opts ...gax.CallOption) (*pubsubpb.PullResponse, error)
	Acknowledge(ctx context.Context, req *pubsubpb.AcknowledgeRequest, opts ...gax.CallOption) error
	ModifyAckDeadline(ctx context.Context, req *pubsubpb.ModifyAckDeadlineRequest, opts ...gax.CallOption) error
	Close() error
}

var newSubscriberAPI = func(ctx context.Context, opts ...option.ClientOption) (subscriberAPI, error) {
	c, err := pubsubapi.NewSubscriberClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SubscriberClient is a Subscription backed by the Pub/Sub data-plane API.
type SubscriberClient struct {
	api         subscriberAPI
	name        string
	metrics     *Metrics
	diagnostics *slog.Logger
}

// NewSubscriberClient connects to the subscription
// projects/{projectID}/subscriptions/{subscriptionID}.
func NewSubscriberClient(ctx context.Context, projectID, subscriptionID string, opts ...Option) (*SubscriberClient, error) {
	projectID = gcpkit.NormalizeProjectID(projectID)
	subscriptionID = strings.TrimSpace(subscriptionID)
	if projectID == "" || subscriptionID == "" {
		return nil, ErrInvalidSubscription
	}
	cfg := applyOptions(opts)

	clientOpts := append([]option.ClientOption{option.WithUserAgent(gcpkit.UserAgent())}, cfg.clientOptions...)
	api, err := newSubscriberAPI(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientInitializationFailed, err)
	}
	return newSubscriberClient(api, SubscriptionName(projectID, subscriptionID), cfg), nil
}

func newSubscriberClient(api subscriberAPI, name string, cfg *config) *SubscriberClient {
	return &SubscriberClient{
		api:         api,
		name:        name,
		metrics:     cfg.metrics,
		diagnostics: cfg.diagnostics,
	}
}

// SubscriptionName formats the fully qualified subscription resource name.
func SubscriptionName(projectID, subscriptionID string) string {
	return "projects/" + projectID + "/subscriptions/" + subscriptionID
}

// Name returns the fully qualified subscription name.
func (c *SubscriberClient) Name() string { return c.name }

// Pull requests up to maxMessages messages and wraps each one bound to this
// client.
func (c *SubscriberClient) Pull(ctx context.Context, maxMessages int) ([]*ReceivedMessage, error) {
	if c == nil {
		return nil, ErrNoSubscription
	}
	if !fitsInt32(maxMessages) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxMessages, maxMessages)
	}
	resp, err := c.api.Pull(ctx, &pubsubpb.PullRequest{
		Subscription: c.name,
		MaxMessages:  int32(maxMessages),
	})
	n := len(resp.GetReceivedMessages())
	c.metrics.observePull(c.name, n, err)
	if err != nil {
		return nil, err
	}
	out := make([]*ReceivedMessage, 0, n)
	for _, rm := range resp.GetReceivedMessages() {
		out = append(out, NewReceivedMessage(rm, c))
	}
	return out, nil
}

// Acknowledge acknowledges ackIDs. No request is sent for an empty list.
func (c *SubscriberClient) Acknowledge(ctx context.Context, ackIDs ...string) error {
	if c == nil {
		return ErrNoSubscription
	}
	if len(ackIDs) == 0 {
		return nil
	}
	err := c.api.Acknowledge(ctx, &pubsubpb.AcknowledgeRequest{
		Subscription: c.name,
		AckIds:       ackIDs,
	})
	c.metrics.observeAck(c.name, len(ackIDs), err)
	return err
}

// Delay sets the acknowledgment deadline of ackIDs to newDeadlineSeconds
// from now. Deadlines that do not fit the wire field are rejected with
// ErrInvalidDeadline. No request is sent for an empty list.
func (c *SubscriberClient) Delay(ctx context.Context, newDeadlineSeconds int, ackIDs ...string) error {
	if c == nil {
		return ErrNoSubscription
	}
	if !fitsInt32(newDeadlineSeconds) {
		return fmt.Errorf("%w: %d", ErrInvalidDeadline, newDeadlineSeconds)
	}
	if len(ackIDs) == 0 {
		return nil
	}
	err := c.api.ModifyAckDeadline(ctx, &pubsubpb.ModifyAckDeadlineRequest{
		Subscription:       c.name,
		AckIds:             ackIDs,
		AckDeadlineSeconds: int32(newDeadlineSeconds),
	})
	c.metrics.observeDelay(c.name, err)
	return err
}

// Close releases the underlying connection.
func (c *SubscriberClient) Close() error {
	if err := c.api.Close(); err != nil {
		logDiagnostic(c.diagnostics, slog.LevelWarn, "Error closing Pub/Sub subscriber client",
			slog.String("subscription", c.name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// fitsInt32 reports whether n is a non-negative value of the int32 request
// fields.
func fitsInt32(n int) bool {
	return n >= 0 && int64(n) <= math.MaxInt32
}

// logDiagnostic emits internal diagnostic messages, guarding against nil
// loggers in tests.
func logDiagnostic(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

var _ Subscription = (*SubscriberClient)(nil)

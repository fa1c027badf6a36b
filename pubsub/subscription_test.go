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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/api/option"
)

// fakeAPI records requests sent to the generated client.
type fakeAPI struct {
	pullReq  *pubsubpb.PullRequest
	pullResp *pubsubpb.PullResponse
	ackReqs  []*pubsubpb.AcknowledgeRequest
	modReqs  []*pubsubpb.ModifyAckDeadlineRequest
	err      error
	closed   bool
}

// Pull records req and returns the canned response.
func (f *fakeAPI) Pull(_ context.Context, req *pubsubpb.PullRequest, _ ...gax.CallOption) (*pubsubpb.PullResponse, error) {
	f.pullReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.pullResp, nil
}

// Acknowledge records req.
func (f *fakeAPI) Acknowledge(_ context.Context, req *pubsubpb.AcknowledgeRequest, _ ...gax.CallOption) error {
	f.ackReqs = append(f.ackReqs, req)
	return f.err
}

// ModifyAckDeadline records req.
func (f *fakeAPI) ModifyAckDeadline(_ context.Context, req *pubsubpb.ModifyAckDeadlineRequest, _ ...gax.CallOption) error {
	f.modReqs = append(f.modReqs, req)
	return f.err
}

// Close marks the fake closed.
func (f *fakeAPI) Close() error {
	f.closed = true
	return f.err
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) *SubscriberClient {
	t.Helper()
	cfg := applyOptions(append([]Option{WithDiagnosticsLogger(nil)}, opts...))
	return newSubscriberClient(api, SubscriptionName("proj", "sub"), cfg)
}

// TestPullWrapsMessages binds each pulled message to the client.
func TestPullWrapsMessages(t *testing.T) {
	api := &fakeAPI{pullResp: &pubsubpb.PullResponse{ReceivedMessages: []*pubsubpb.ReceivedMessage{
		{AckId: "a1", Message: &pubsubpb.PubsubMessage{MessageId: "1"}},
		{AckId: "a2", Message: &pubsubpb.PubsubMessage{MessageId: "2"}},
	}}}
	client := newTestClient(t, api)

	msgs, err := client.Pull(context.Background(), 5)
	if err != nil {
		t.Fatalf("Pull returned %v", err)
	}
	if api.pullReq.GetSubscription() != "projects/proj/subscriptions/sub" || api.pullReq.GetMaxMessages() != 5 {
		t.Fatalf("pull request = %v", api.pullReq)
	}
	if len(msgs) != 2 || msgs[0].AckID() != "a1" || msgs[1].MessageID() != "2" {
		t.Fatalf("messages = %v", msgs)
	}
	if msgs[0].Subscription() != Subscription(client) {
		t.Fatalf("message not bound to the pulling client")
	}

	if err := msgs[1].Acknowledge(context.Background()); err != nil {
		t.Fatalf("Acknowledge returned %v", err)
	}
	if len(api.ackReqs) != 1 || api.ackReqs[0].GetAckIds()[0] != "a2" {
		t.Fatalf("ack requests = %v", api.ackReqs)
	}

	if err := msgs[0].Delay(context.Background(), 120); err != nil {
		t.Fatalf("Delay returned %v", err)
	}
	if len(api.modReqs) != 1 || api.modReqs[0].GetAckDeadlineSeconds() != 120 || api.modReqs[0].GetAckIds()[0] != "a1" {
		t.Fatalf("modify requests = %v", api.modReqs)
	}
}

// TestSubscriberClientEmptyAckIDs skips the RPC for empty lists.
func TestSubscriberClientEmptyAckIDs(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api)
	if err := client.Acknowledge(context.Background()); err != nil {
		t.Fatalf("Acknowledge returned %v", err)
	}
	if err := client.Delay(context.Background(), 10); err != nil {
		t.Fatalf("Delay returned %v", err)
	}
	if len(api.ackReqs) != 0 || len(api.modReqs) != 0 {
		t.Fatalf("unexpected RPCs: acks=%v mods=%v", api.ackReqs, api.modReqs)
	}
}

// TestSubscriberClientMetrics counts outcomes per subscription.
func TestSubscriberClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics returned %v", err)
	}
	api := &fakeAPI{pullResp: &pubsubpb.PullResponse{ReceivedMessages: []*pubsubpb.ReceivedMessage{{AckId: "a"}}}}
	client := newTestClient(t, api, WithMetrics(metrics))
	name := client.Name()

	if _, err := client.Pull(context.Background(), 1); err != nil {
		t.Fatalf("Pull returned %v", err)
	}
	if err := client.Acknowledge(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Acknowledge returned %v", err)
	}
	api.err = errors.New("unavailable")
	_ = client.Delay(context.Background(), 5, "a")
	_, _ = client.Pull(context.Background(), 1)

	if got := testutil.ToFloat64(metrics.pulled); got != 1 {
		t.Fatalf("pulled messages = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.pulls.WithLabelValues(name, "ok")); got != 1 {
		t.Fatalf("ok pulls = %v", got)
	}
	if got := testutil.ToFloat64(metrics.pulls.WithLabelValues(name, "error")); got != 1 {
		t.Fatalf("failed pulls = %v", got)
	}
	if got := testutil.ToFloat64(metrics.ackedIDs); got != 2 {
		t.Fatalf("acknowledged IDs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.delays.WithLabelValues(name, "error")); got != 1 {
		t.Fatalf("failed delays = %v", got)
	}
	if n := testutil.CollectAndCount(metrics.acks); n != 1 {
		t.Fatalf("ack series = %d, want 1", n)
	}

	if _, err := NewMetrics(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

// TestNewSubscriberClientValidatesNames rejects empty identifiers.
func TestNewSubscriberClientValidatesNames(t *testing.T) {
	if _, err := NewSubscriberClient(context.Background(), "", "sub"); !errors.Is(err, ErrInvalidSubscription) {
		t.Fatalf("error = %v, want ErrInvalidSubscription", err)
	}
	if _, err := NewSubscriberClient(context.Background(), "proj", " "); !errors.Is(err, ErrInvalidSubscription) {
		t.Fatalf("error = %v, want ErrInvalidSubscription", err)
	}
}

// TestNewSubscriberClientUsesFactory wires options and wraps failures.
func TestNewSubscriberClientUsesFactory(t *testing.T) {
	original := newSubscriberAPI
	t.Cleanup(func() { newSubscriberAPI = original })

	api := &fakeAPI{}
	var optCount int
	newSubscriberAPI = func(_ context.Context, opts ...option.ClientOption) (subscriberAPI, error) {
		optCount = len(opts)
		return api, nil
	}
	client, err := NewSubscriberClient(context.Background(), "projects/proj", "sub",
		WithClientOptions(option.WithEndpoint("localhost:8085")), WithDiagnosticsLogger(nil))
	if err != nil {
		t.Fatalf("NewSubscriberClient returned %v", err)
	}
	if client.Name() != "projects/proj/subscriptions/sub" {
		t.Fatalf("Name = %q", client.Name())
	}
	if optCount != 2 {
		t.Fatalf("client options = %d, want user agent plus endpoint", optCount)
	}
	if err := client.Close(); err != nil || !api.closed {
		t.Fatalf("Close = %v closed=%v", err, api.closed)
	}

	cause := errors.New("no credentials")
	newSubscriberAPI = func(context.Context, ...option.ClientOption) (subscriberAPI, error) {
		return nil, cause
	}
	_, err = NewSubscriberClient(context.Background(), "proj", "sub")
	if !errors.Is(err, ErrClientInitializationFailed) || !errors.Is(err, cause) {
		t.Fatalf("error = %v", err)
	}
}

// TestSubscriberClientClose reports close failures to the diagnostics logger.
func TestSubscriberClientClose(t *testing.T) {
	api := &fakeAPI{}
	if err := newTestClient(t, api).Close(); err != nil || !api.closed {
		t.Fatalf("Close = %v closed=%v", err, api.closed)
	}

	var buf bytes.Buffer
	closeErr := errors.New("conn reset")
	api = &fakeAPI{err: closeErr}
	client := newTestClient(t, api, WithDiagnosticsLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	if err := client.Close(); !errors.Is(err, closeErr) {
		t.Fatalf("Close = %v, want %v", err, closeErr)
	}
	if !strings.Contains(buf.String(), "projects/proj/subscriptions/sub") {
		t.Fatalf("diagnostics = %q", buf.String())
	}
}

// TestSubscriberClientRejectsOutOfRangeValues never truncates int32 fields.
func TestSubscriberClientRejectsOutOfRangeValues(t *testing.T) {
	api := &fakeAPI{pullResp: &pubsubpb.PullResponse{}}
	client := newTestClient(t, api)
	ctx := context.Background()

	for _, n := range []int{-1, math.MaxInt32 + 1, 1<<32 + 600} {
		if _, err := client.Pull(ctx, n); !errors.Is(err, ErrInvalidMaxMessages) {
			t.Fatalf("Pull(%d) error = %v, want ErrInvalidMaxMessages", n, err)
		}
		if err := client.Delay(ctx, n, "a1"); !errors.Is(err, ErrInvalidDeadline) {
			t.Fatalf("Delay(%d) error = %v, want ErrInvalidDeadline", n, err)
		}
	}
	if api.pullReq != nil || len(api.modReqs) != 0 {
		t.Fatalf("out-of-range values reached the API: pull=%v mods=%v", api.pullReq, api.modReqs)
	}

	rm := NewReceivedMessage(&pubsubpb.ReceivedMessage{AckId: "a1"}, client)
	if err := rm.Delay(ctx, 1<<32); !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("ReceivedMessage.Delay error = %v, want ErrInvalidDeadline", err)
	}

	if err := client.Delay(ctx, math.MaxInt32, "a1"); err != nil {
		t.Fatalf("Delay(MaxInt32) returned %v", err)
	}
	if got := api.modReqs[0].GetAckDeadlineSeconds(); got != math.MaxInt32 {
		t.Fatalf("AckDeadlineSeconds = %d", got)
	}
	if _, err := client.Pull(ctx, 0); err != nil {
		t.Fatalf("Pull(0) returned %v", err)
	}
}

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

	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
)

// ReceivedMessage is a pulled message awaiting acknowledgment, paired with
// the subscription it was delivered on.
type ReceivedMessage struct {
	pb  *pubsubpb.ReceivedMessage
	sub Subscription
}

// NewReceivedMessage wraps a wire-format received message and the
// subscription it came from. sub may be nil, in which case Acknowledge and
// Delay fail with ErrNoSubscription.
func NewReceivedMessage(pb *pubsubpb.ReceivedMessage, sub Subscription) *ReceivedMessage {
	if c, ok := sub.(*SubscriberClient); ok && c == nil {
		sub = nil
	}
	return &ReceivedMessage{pb: pb, sub: sub}
}

// AckID returns the acknowledgment ID.
func (m *ReceivedMessage) AckID() string { return m.pb.GetAckId() }

// Message returns a fresh view of the delivered message on each call.
func (m *ReceivedMessage) Message() *Message {
	return NewMessage(m.pb.GetMessage())
}

// Data returns the message payload.
func (m *ReceivedMessage) Data() []byte { return m.Message().Data() }

// Attributes returns the message attributes.
func (m *ReceivedMessage) Attributes() map[string]string { return m.Message().Attributes() }

// MessageID returns the server-assigned message ID.
func (m *ReceivedMessage) MessageID() string { return m.Message().MessageID() }

// DeliveryAttempt returns the delivery attempt counter, which is zero unless
// the subscription has a dead-letter policy.
func (m *ReceivedMessage) DeliveryAttempt() int { return int(m.pb.GetDeliveryAttempt()) }

// Subscription returns the subscription the message was delivered on.
func (m *ReceivedMessage) Subscription() Subscription { return m.sub }

// Acknowledge acknowledges the message so it is not redelivered. Errors from
// the subscription are returned unchanged.
func (m *ReceivedMessage) Acknowledge(ctx context.Context) error {
	if m.sub == nil {
		return ErrNoSubscription
	}
	return m.sub.Acknowledge(ctx, m.AckID())
}

// Delay modifies the acknowledgment deadline to newDeadlineSeconds from now.
// Zero makes the message immediately available for redelivery. The value is
// passed to the subscription unchanged; SubscriberClient rejects values
// outside the int32 range with ErrInvalidDeadline.
func (m *ReceivedMessage) Delay(ctx context.Context, newDeadlineSeconds int) error {
	if m.sub == nil {
		return ErrNoSubscription
	}
	return m.sub.Delay(ctx, newDeadlineSeconds, m.AckID())
}

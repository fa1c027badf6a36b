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
	"time"

	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
)

// Message is a read-only view of a Pub/Sub message.
type Message struct {
	pb *pubsubpb.PubsubMessage
}

// NewMessage wraps pb. A nil pb yields an empty message.
func NewMessage(pb *pubsubpb.PubsubMessage) *Message {
	return &Message{pb: pb}
}

// Data returns the message payload.
func (m *Message) Data() []byte { return m.pb.GetData() }

// Attributes returns the message attributes. The map belongs to the
// underlying message and must not be modified.
func (m *Message) Attributes() map[string]string { return m.pb.GetAttributes() }

// MessageID returns the server-assigned message ID.
func (m *Message) MessageID() string { return m.pb.GetMessageId() }

// OrderingKey returns the ordering key, if any.
func (m *Message) OrderingKey() string { return m.pb.GetOrderingKey() }

// PublishTime returns when the server received the message, or the zero
// time when unset.
func (m *Message) PublishTime() time.Time {
	ts := m.pb.GetPublishTime()
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

// Proto returns the wrapped wire message.
func (m *Message) Proto() *pubsubpb.PubsubMessage { return m.pb }

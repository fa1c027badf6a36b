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

// Package pubsub wraps messages pulled from a Cloud Pub/Sub subscription so
// each one can be acknowledged, or have its deadline extended, through the
// subscription it was delivered on.
//
//	client, err := pubsub.NewSubscriberClient(ctx, "my-project", "my-sub")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	msgs, err := client.Pull(ctx, 10)
//	for _, m := range msgs {
//	    if err := handle(m.Data()); err != nil {
//	        _ = m.Delay(ctx, 60)
//	        continue
//	    }
//	    _ = m.Acknowledge(ctx)
//	}
//
// A ReceivedMessage never mutates the wire message it wraps. Transport,
// retries and authentication are handled by cloud.google.com/go/pubsub.
package pubsub

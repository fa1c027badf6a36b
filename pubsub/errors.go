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

import "errors"

// ErrNoSubscription is returned by Acknowledge and Delay on a message that is
// not bound to a subscription.
var ErrNoSubscription = errors.New("gcpkit/pubsub: must have active subscription")

// ErrInvalidSubscription indicates an empty project or subscription ID.
var ErrInvalidSubscription = errors.New("gcpkit/pubsub: project and subscription IDs are required")

// ErrClientInitializationFailed indicates the generated subscriber client
// could not be created.
var ErrClientInitializationFailed = errors.New("gcpkit/pubsub: subscriber client initialization failed")

// ErrInvalidMaxMessages indicates a Pull batch size outside [0, math.MaxInt32].
var ErrInvalidMaxMessages = errors.New("gcpkit/pubsub: max messages out of range")

// ErrInvalidDeadline indicates an acknowledgment deadline outside
// [0, math.MaxInt32] seconds.
var ErrInvalidDeadline = errors.New("gcpkit/pubsub: ack deadline out of range")

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

package gcpkit

import "testing"

// TestUserAgentReflectsVersion ensures UserAgent mirrors build-time overrides.
func TestUserAgentReflectsVersion(t *testing.T) {
	original := Version
	Version = "test-version"
	t.Cleanup(func() { Version = original })

	if got := UserAgent(); got != "gcpkit/test-version" {
		t.Fatalf("UserAgent() = %q, want %q", got, "gcpkit/test-version")
	}
}

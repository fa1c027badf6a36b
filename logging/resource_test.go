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
	"fmt"
	"testing"
)

// fakeEnvironment is a PlatformEnvironment with fixed answers.
type fakeEnvironment struct {
	appEngine, container, vm bool
}

// IsAppEngine returns the configured answer.
func (f fakeEnvironment) IsAppEngine() bool { return f.appEngine }

// IsContainerOrchestrated returns the configured answer.
func (f fakeEnvironment) IsContainerOrchestrated() bool { return f.container }

// IsVirtualMachine returns the configured answer.
func (f fakeEnvironment) IsVirtualMachine() bool { return f.vm }

// labeledEnvironment adds ResourceLabels to fakeEnvironment.
type labeledEnvironment struct {
	fakeEnvironment
	labels map[string]map[string]string
}

// ResourceLabels returns the labels configured for resourceType.
func (l labeledEnvironment) ResourceLabels(resourceType string) map[string]string {
	return l.labels[resourceType]
}

// stubDefaultResource replaces the memoized default for the test.
func stubDefaultResource(t *testing.T, env PlatformEnvironment) *int {
	t.Helper()
	probes := new(int)
	original := defaultMonitoredResource
	defaultMonitoredResource = newResourceCache(func() PlatformEnvironment {
		*probes++
		return env
	})
	t.Cleanup(func() { defaultMonitoredResource = original })
	return probes
}

// TestDetectMonitoredResourcePriority walks all probe combinations.
func TestDetectMonitoredResourcePriority(t *testing.T) {
	for _, gae := range []bool{false, true} {
		for _, k8s := range []bool{false, true} {
			for _, vm := range []bool{false, true} {
				want := ResourceTypeGlobal
				switch {
				case gae:
					want = ResourceTypeAppEngine
				case k8s:
					want = ResourceTypeContainer
				case vm:
					want = ResourceTypeVM
				}
				t.Run(fmt.Sprintf("gae=%v/k8s=%v/vm=%v", gae, k8s, vm), func(t *testing.T) {
					got := DetectMonitoredResource(fakeEnvironment{appEngine: gae, container: k8s, vm: vm})
					if got.GetType() != want {
						t.Fatalf("type = %q, want %q", got.GetType(), want)
					}
				})
			}
		}
	}
}

// TestDetectMonitoredResourceLabels attaches labeler output for the chosen type.
func TestDetectMonitoredResourceLabels(t *testing.T) {
	env := labeledEnvironment{
		fakeEnvironment: fakeEnvironment{vm: true},
		labels: map[string]map[string]string{
			ResourceTypeVM: {"instance_id": "42", "zone": "us-central1-a"},
		},
	}
	got := DetectMonitoredResource(env)
	if got.GetType() != ResourceTypeVM {
		t.Fatalf("type = %q", got.GetType())
	}
	if got.GetLabels()["instance_id"] != "42" || got.GetLabels()["zone"] != "us-central1-a" {
		t.Fatalf("labels = %v", got.GetLabels())
	}

	global := DetectMonitoredResource(nil)
	if global.GetType() != ResourceTypeGlobal || len(global.GetLabels()) != 0 {
		t.Fatalf("nil environment = %v", global)
	}
}

// TestBuildMonitoredResourceCustom honors a full custom resource verbatim.
func TestBuildMonitoredResourceCustom(t *testing.T) {
	stubDefaultResource(t, fakeEnvironment{vm: true})

	got := BuildMonitoredResource("my_type", map[string]string{"k": "v"})
	if got.GetType() != "my_type" || got.GetLabels()["k"] != "v" || len(got.GetLabels()) != 1 {
		t.Fatalf("BuildMonitoredResource = %v", got)
	}

	empty := BuildMonitoredResource("bare_type", map[string]string{})
	if empty.GetType() != "bare_type" {
		t.Fatalf("empty non-nil labels should count as supplied, got %v", empty)
	}
}

// TestBuildMonitoredResourcePartialFallsBack returns the default when either
// argument is omitted.
func TestBuildMonitoredResourcePartialFallsBack(t *testing.T) {
	stubDefaultResource(t, fakeEnvironment{appEngine: true})

	cases := []struct {
		name         string
		resourceType string
		labels       map[string]string
	}{
		{"type only", "my_type", nil},
		{"labels only", "", map[string]string{"k": "v"}},
		{"neither", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildMonitoredResource(tc.resourceType, tc.labels)
			if got.GetType() != ResourceTypeAppEngine {
				t.Fatalf("type = %q, want default gae_app", got.GetType())
			}
			if _, ok := got.GetLabels()["k"]; ok {
				t.Fatalf("custom labels leaked into default: %v", got.GetLabels())
			}
		})
	}
}

// TestDefaultMonitoredResourceIsMemoized probes the environment once and
// hands out independent copies.
func TestDefaultMonitoredResourceIsMemoized(t *testing.T) {
	probes := stubDefaultResource(t, labeledEnvironment{
		fakeEnvironment: fakeEnvironment{container: true},
		labels: map[string]map[string]string{
			ResourceTypeContainer: {"cluster_name": "prod"},
		},
	})

	first := DefaultMonitoredResource()
	first.Labels["cluster_name"] = "mutated"
	second := DefaultMonitoredResource()

	if *probes != 1 {
		t.Fatalf("environment probed %d times, want 1", *probes)
	}
	if second.GetLabels()["cluster_name"] != "prod" {
		t.Fatalf("cached resource was mutated through a returned copy: %v", second)
	}
}

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
	"sync"

	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/proto"
)

// Monitored resource types selected by DetectMonitoredResource.
const (
	ResourceTypeAppEngine = "gae_app"
	ResourceTypeContainer = "container"
	ResourceTypeVM        = "gce_instance"
	ResourceTypeGlobal    = "global"
)

// defaultMonitoredResource is the process-wide memoized detection result.
var defaultMonitoredResource = newResourceCache(func() PlatformEnvironment {
	return NewMetadataEnvironment(nil)
})

// newResourceCache returns a function that runs detection against the
// environment from probe at most once.
func newResourceCache(probe func() PlatformEnvironment) func() *monitoredres.MonitoredResource {
	return sync.OnceValue(func() *monitoredres.MonitoredResource {
		return DetectMonitoredResource(probe())
	})
}

// BuildMonitoredResource returns a resource with the given type and labels
// when both are supplied. If resourceType is empty or labels is nil the
// detected DefaultMonitoredResource is returned instead, even when the other
// argument was set. An empty non-nil labels map counts as supplied.
func BuildMonitoredResource(resourceType string, labels map[string]string) *monitoredres.MonitoredResource {
	if resourceType != "" && labels != nil {
		return &monitoredres.MonitoredResource{Type: resourceType, Labels: labels}
	}
	return DefaultMonitoredResource()
}

// DefaultMonitoredResource returns the resource detected for the current
// platform. Detection runs once per process; every call returns an
// independent copy of the cached value.
func DefaultMonitoredResource() *monitoredres.MonitoredResource {
	return proto.Clone(defaultMonitoredResource()).(*monitoredres.MonitoredResource)
}

// DetectMonitoredResource selects the resource type for env in fixed
// priority order: App Engine, then container orchestration, then a virtual
// machine, then "global". When env implements ResourceLabeler its labels for
// the chosen type are attached.
func DetectMonitoredResource(env PlatformEnvironment) *monitoredres.MonitoredResource {
	resourceType := ResourceTypeGlobal
	switch {
	case env == nil:
	case env.IsAppEngine():
		resourceType = ResourceTypeAppEngine
	case env.IsContainerOrchestrated():
		resourceType = ResourceTypeContainer
	case env.IsVirtualMachine():
		resourceType = ResourceTypeVM
	}

	labels := map[string]string{}
	if labeler, ok := env.(ResourceLabeler); ok && resourceType != ResourceTypeGlobal {
		for k, v := range labeler.ResourceLabels(resourceType) {
			labels[k] = v
		}
	}
	return &monitoredres.MonitoredResource{Type: resourceType, Labels: labels}
}

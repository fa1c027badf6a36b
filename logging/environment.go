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
	"os"
	"strings"
	"sync"

	"github.com/pjscruggs/gcpkit"
)

// PlatformEnvironment reports which Google Cloud hosting platform the
// process runs on. More than one probe may be true at once; App Engine
// flexible and GKE nodes both run on Compute Engine VMs.
type PlatformEnvironment interface {
	IsAppEngine() bool
	IsContainerOrchestrated() bool
	IsVirtualMachine() bool
}

// ResourceLabeler is optionally implemented by a PlatformEnvironment to
// supply the labels of the detected monitored resource type.
type ResourceLabeler interface {
	ResourceLabels(resourceType string) map[string]string
}

const namespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// MetadataEnvironment probes the platform through environment variables and
// the Compute Engine metadata server. Metadata lookups are cached.
type MetadataEnvironment struct {
	md       gcpkit.MetadataClient
	getenv   func(string) string
	readFile func(string) ([]byte, error)

	onGCEOnce sync.Once
	onGCE     bool

	mu    sync.Mutex
	cache map[string]string
}

// NewMetadataEnvironment returns a PlatformEnvironment backed by md. A nil md
// uses gcpkit.NewMetadataClient.
func NewMetadataEnvironment(md gcpkit.MetadataClient) *MetadataEnvironment {
	if md == nil {
		md = gcpkit.NewMetadataClient()
	}
	return &MetadataEnvironment{
		md:       md,
		getenv:   os.Getenv,
		readFile: os.ReadFile,
		cache:    make(map[string]string),
	}
}

// IsAppEngine reports whether App Engine runtime variables are present.
func (e *MetadataEnvironment) IsAppEngine() bool {
	return e.getenv("GAE_INSTANCE") != "" || e.getenv("GAE_SERVICE") != ""
}

// IsContainerOrchestrated reports whether the process runs in a Kubernetes
// pod, either by the service host variable or a GKE cluster-name attribute.
func (e *MetadataEnvironment) IsContainerOrchestrated() bool {
	if e.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}
	return e.IsVirtualMachine() && e.lookup("instance/attributes/cluster-name") != ""
}

// IsVirtualMachine reports whether the metadata server is reachable.
func (e *MetadataEnvironment) IsVirtualMachine() bool {
	e.onGCEOnce.Do(func() {
		e.onGCE = e.md.OnGCE()
	})
	return e.onGCE
}

// ResourceLabels returns the labels Cloud Logging expects for resourceType.
func (e *MetadataEnvironment) ResourceLabels(resourceType string) map[string]string {
	switch resourceType {
	case ResourceTypeAppEngine:
		return map[string]string{
			"module_id":  e.getenv("GAE_SERVICE"),
			"version_id": e.getenv("GAE_VERSION"),
		}
	case ResourceTypeContainer:
		return map[string]string{
			"cluster_name":   e.lookup("instance/attributes/cluster-name"),
			"namespace_id":   e.namespace(),
			"instance_id":    e.lookup("instance/id"),
			"container_name": firstNonEmpty(e.getenv("CONTAINER_NAME"), e.getenv("HOSTNAME")),
			"zone":           e.zone(),
		}
	case ResourceTypeVM:
		return map[string]string{
			"instance_id": e.lookup("instance/id"),
			"zone":        e.zone(),
		}
	default:
		return map[string]string{}
	}
}

// namespace resolves the pod namespace, defaulting to "default".
func (e *MetadataEnvironment) namespace() string {
	if ns := e.getenv("NAMESPACE"); ns != "" {
		return ns
	}
	if b, err := e.readFile(namespaceFile); err == nil {
		if ns := strings.TrimSpace(string(b)); ns != "" {
			return ns
		}
	}
	return "default"
}

// zone strips the "projects/N/zones/" prefix the metadata server returns.
func (e *MetadataEnvironment) zone() string {
	z := e.lookup("instance/zone")
	if i := strings.LastIndex(z, "/"); i >= 0 {
		return z[i+1:]
	}
	return z
}

// lookup fetches and caches a metadata value. Failures cache as empty.
func (e *MetadataEnvironment) lookup(path string) string {
	if !e.IsVirtualMachine() {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.cache[path]; ok {
		return v
	}
	v, err := e.md.Get(path)
	if err != nil {
		v = ""
	}
	e.cache[path] = v
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

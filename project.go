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

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/compute/metadata"
)

// projectEnvVars lists the variables consulted for a project ID, in order.
var projectEnvVars = []string{
	"GCPKIT_PROJECT_ID",
	"GOOGLE_CLOUD_PROJECT",
	"GCLOUD_PROJECT",
	"GCP_PROJECT",
}

const metadataTimeout = 500 * time.Millisecond

// MetadataClient is the subset of the Compute Engine metadata server used by
// gcpkit. Paths are relative to /computeMetadata/v1/.
type MetadataClient interface {
	OnGCE() bool
	Get(path string) (string, error)
}

type computeMetadataClient struct {
	client *metadata.Client
}

// OnGCE reports whether the metadata server is reachable.
func (c computeMetadataClient) OnGCE() bool {
	return metadata.OnGCE()
}

// Get fetches a metadata value with a short timeout.
func (c computeMetadataClient) Get(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
	defer cancel()
	v, err := c.client.GetWithContext(ctx, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

var metadataClientFactory = func() MetadataClient {
	return computeMetadataClient{
		client: metadata.NewClient(&http.Client{Timeout: metadataTimeout}),
	}
}

// NewMetadataClient returns a MetadataClient backed by the Compute Engine
// metadata server.
func NewMetadataClient() MetadataClient {
	return metadataClientFactory()
}

var (
	projectIDOnce sync.Once
	projectID     string
)

// ProjectID returns the Google Cloud project the process runs in. It checks
// GCPKIT_PROJECT_ID, GOOGLE_CLOUD_PROJECT, GCLOUD_PROJECT and GCP_PROJECT,
// then the metadata server. The result is computed once per process.
func ProjectID() string {
	projectIDOnce.Do(func() {
		projectID = detectProjectID(NewMetadataClient())
	})
	return projectID
}

// ResolveProjectID returns explicit when it is non-empty after normalization,
// otherwise the detected ProjectID.
func ResolveProjectID(explicit string) string {
	if id := NormalizeProjectID(explicit); id != "" {
		return id
	}
	return ProjectID()
}

// detectProjectID consults environment variables and then md.
func detectProjectID(md MetadataClient) string {
	for _, name := range projectEnvVars {
		if id := NormalizeProjectID(os.Getenv(name)); id != "" {
			return id
		}
	}
	if md == nil || !md.OnGCE() {
		return ""
	}
	id, err := md.Get("project/project-id")
	if err != nil {
		return ""
	}
	return NormalizeProjectID(id)
}

// NormalizeProjectID strips whitespace, a "projects/" prefix and leading
// underscores (App Engine's GAE_APPLICATION form) from id.
func NormalizeProjectID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= len("projects/") && strings.EqualFold(id[:len("projects/")], "projects/") {
		id = id[len("projects/"):]
	}
	id = strings.TrimPrefix(id, "_")
	return strings.TrimSpace(id)
}

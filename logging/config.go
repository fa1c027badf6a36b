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
	"strings"

	"github.com/caarlos0/env/v11"
)

// LogTarget selects where log entries are written.
type LogTarget int

const (
	// LogTargetGCP sends entries to the Cloud Logging API (default).
	LogTargetGCP LogTarget = iota
	// LogTargetStdout writes structured JSON lines to standard output.
	LogTargetStdout
	// LogTargetStderr writes structured JSON lines to standard error.
	LogTargetStderr
)

// String returns the configuration name of the target.
func (t LogTarget) String() string {
	switch t {
	case LogTargetGCP:
		return "gcp"
	case LogTargetStdout:
		return "stdout"
	case LogTargetStderr:
		return "stderr"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// UnmarshalText parses "gcp", "stdout" or "stderr".
func (t *LogTarget) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "gcp":
		*t = LogTargetGCP
	case "stdout":
		*t = LogTargetStdout
	case "stderr":
		*t = LogTargetStderr
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogTarget, string(text))
	}
	return nil
}

// Config is the environment-derived logger configuration. Options passed to
// NewLogger override these values.
type Config struct {
	Target       LogTarget `env:"GCPKIT_LOG_TARGET" envDefault:"gcp"`
	LogName      string    `env:"GCPKIT_LOG_NAME" envDefault:"app"`
	Level        Level     `env:"GCPKIT_LOG_LEVEL" envDefault:"INFO"`
	ProjectID    string    `env:"GCPKIT_PROJECT_ID"`
	AddSource    bool      `env:"GCPKIT_SOURCE_LOCATION"`
	ResourceType string    `env:"GCPKIT_RESOURCE_TYPE"`
	// ResourceLabels and CommonLabels use the k1:v1,k2:v2 form.
	ResourceLabels map[string]string `env:"GCPKIT_RESOURCE_LABELS"`
	CommonLabels   map[string]string `env:"GCPKIT_COMMON_LABELS"`
	// DisablePropagatorAutoSet keeps NewLogger from installing the gcpkit
	// propagator as the global OpenTelemetry propagator.
	DisablePropagatorAutoSet bool `env:"GCPKIT_DISABLE_PROPAGATOR_AUTOSET"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	return cfg, nil
}

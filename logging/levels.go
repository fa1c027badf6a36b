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
	"log/slog"
	"strings"

	cloudlogging "cloud.google.com/go/logging"
)

// Level extends slog.Level with the remaining Cloud Logging severities. The
// integer values stay compatible with slog.Level.
type Level slog.Level

const (
	// LevelDefault maps to DEFAULT. Lower than Debug.
	LevelDefault Level = -8
	LevelDebug   Level = Level(slog.LevelDebug)
	LevelInfo    Level = Level(slog.LevelInfo)
	// LevelNotice maps to NOTICE, between Info and Warn.
	LevelNotice Level = 2
	LevelWarn   Level = Level(slog.LevelWarn)
	LevelError  Level = Level(slog.LevelError)
	// LevelCritical, LevelAlert and LevelEmergency sit above Error.
	LevelCritical  Level = 12
	LevelAlert     Level = 16
	LevelEmergency Level = 20
)

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelDefault, "DEFAULT"},
	{LevelDebug, "DEBUG"},
	{LevelInfo, "INFO"},
	{LevelNotice, "NOTICE"},
	{LevelWarn, "WARN"},
	{LevelError, "ERROR"},
	{LevelCritical, "CRITICAL"},
	{LevelAlert, "ALERT"},
	{LevelEmergency, "EMERGENCY"},
}

// String returns the severity name, with an offset from the nearest lower
// named level for values in between (for example "INFO+1").
func (l Level) String() string {
	if l < LevelDefault {
		return slog.Level(l).String()
	}
	base := levelNames[0]
	for _, ln := range levelNames {
		if ln.level > l {
			break
		}
		base = ln
	}
	if base.level == l {
		return base.name
	}
	return fmt.Sprintf("%s+%d", base.name, int(l-base.level))
}

// Level satisfies slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// UnmarshalText parses a level name such as "notice" or "WARNING".
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a case-insensitive severity name into a Level. Both
// "WARN" and "WARNING" are accepted.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for _, ln := range levelNames {
		if ln.name == name {
			return ln.level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// severityForLevel converts a slog level to the Cloud Logging severity whose
// range contains it.
func severityForLevel(level slog.Level) cloudlogging.Severity {
	switch l := Level(level); {
	case l <= LevelDefault:
		return cloudlogging.Default
	case l <= LevelDebug:
		return cloudlogging.Debug
	case l <= LevelInfo:
		return cloudlogging.Info
	case l <= LevelNotice:
		return cloudlogging.Notice
	case l <= LevelWarn:
		return cloudlogging.Warning
	case l <= LevelError:
		return cloudlogging.Error
	case l <= LevelCritical:
		return cloudlogging.Critical
	case l <= LevelAlert:
		return cloudlogging.Alert
	default:
		return cloudlogging.Emergency
	}
}

// severityName returns the upper-case name used in structured JSON output.
func severityName(sev cloudlogging.Severity) string {
	return strings.ToUpper(sev.String())
}

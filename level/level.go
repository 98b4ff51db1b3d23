// Package level defines the richlog severity ladder.
//
// The ladder extends the usual DEBUG..CRITICAL range with the syslog
// severities NOTICE, ALERT and EMERGENCY, plus FATAL. Each level carries
// its canonical name, syslog severity code, database table name and emoji
// icon, so encoders and sinks share a single source of truth.
package level

import (
	"fmt"
	"strings"
)

// Level is an ordered log severity. Higher values are more severe.
type Level int

const (
	// Debug logs verbose diagnostic messages.
	Debug Level = 10
	// Info logs routine informational messages.
	Info Level = 20
	// Notice logs normal but significant events.
	Notice Level = 25
	// Warning logs conditions that deserve attention.
	Warning Level = 30
	// Error logs error conditions.
	Error Level = 40
	// Fatal logs unrecoverable errors; the logger exits after emitting.
	Fatal Level = 55
	// Critical logs critical conditions.
	Critical Level = 58
	// Alert logs conditions requiring immediate action.
	Alert Level = 59
	// Emergency logs system-unusable conditions.
	Emergency Level = 60
)

// All lists every defined level in ascending severity order.
var All = []Level{Debug, Info, Notice, Warning, Error, Fatal, Critical, Alert, Emergency}

var names = map[Level]string{
	Debug:     "DEBUG",
	Info:      "INFO",
	Notice:    "NOTICE",
	Warning:   "WARNING",
	Error:     "ERROR",
	Fatal:     "FATAL",
	Critical:  "CRITICAL",
	Alert:     "ALERT",
	Emergency: "EMERGENCY",
}

// Syslog severity codes per RFC 5424. FATAL has no syslog standard and
// shares the ALERT code.
var syslogSeverities = map[Level]int{
	Emergency: 0,
	Alert:     1,
	Fatal:     1,
	Critical:  2,
	Error:     3,
	Warning:   4,
	Notice:    5,
	Info:      6,
	Debug:     7,
}

var tables = map[Level]string{
	Debug:     "log_debug",
	Info:      "log_info",
	Notice:    "log_notice",
	Warning:   "log_warning",
	Error:     "log_error",
	Fatal:     "log_fatal",
	Critical:  "log_critical",
	Alert:     "log_alert",
	Emergency: "log_emergency",
}

var icons = map[Level]string{
	Debug:     "🐛",
	Info:      "ℹ️",
	Notice:    "📢",
	Warning:   "⚠️",
	Error:     "❌",
	Critical:  "💥",
	Fatal:     "☠",
	Alert:     "🚨",
	Emergency: "🆘",
}

// String returns the canonical upper-case level name.
// Unknown values render as "LEVEL(<n>)".
func (l Level) String() string {
	if name, ok := names[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Lower returns the lower-case level name, used for routing keys,
// index names and JSON payloads.
func (l Level) Lower() string {
	return strings.ToLower(l.String())
}

// SyslogSeverity returns the RFC 5424 severity code for the level.
// Unknown levels map to debug (7).
func (l Level) SyslogSeverity() int {
	if sev, ok := syslogSeverities[l]; ok {
		return sev
	}
	return 7
}

// Table returns the database table name for the level. Unknown levels
// fall back to the info table.
func (l Level) Table() string {
	if t, ok := tables[l]; ok {
		return t
	}
	return "log_info"
}

// Icon returns the emoji icon for the level, or "" for unknown values.
func (l Level) Icon() string {
	return icons[l]
}

// Nearest snaps an arbitrary value to the closest defined level at or
// below it, so presentation lookups degrade gracefully for in-between
// values. Values below Debug snap to Debug.
func (l Level) Nearest() Level {
	if _, ok := names[l]; ok {
		return l
	}
	nearest := Debug
	for _, candidate := range All {
		if candidate <= l {
			nearest = candidate
		}
	}
	return nearest
}

var aliases = map[string]Level{
	"WARN": Warning,
	"CRIT": Critical,
}

// Parse converts a level name to a Level, case-insensitively.
// The aliases "warn" and "crit" are accepted.
func Parse(s string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for l, name := range names {
		if name == upper {
			return l, nil
		}
	}
	if l, ok := aliases[upper]; ok {
		return l, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

package encoding

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONEncoder renders entries as single-line JSON objects in the shape
// used by the North Cloud services' production logs: ISO8601 timestamp,
// lower-case level, structured fields flattened into the top level.
// Network sinks use it for payload bodies.
type JSONEncoder struct{}

// NewJSONEncoder creates a JSON encoder.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Encode renders the entry as a JSON object. Reserved keys (ts, level,
// logger, msg, caller, pid) take precedence over colliding field names.
func (e *JSONEncoder) Encode(entry *Entry) ([]byte, error) {
	obj := entry.FieldsMap()
	if obj == nil {
		obj = make(map[string]any, 6)
	}

	obj["ts"] = entry.Time.Format(time.RFC3339Nano)
	obj["level"] = entry.Level.Lower()
	if entry.LoggerName != "" {
		obj["logger"] = entry.LoggerName
	}
	obj["msg"] = entry.Message
	obj["pid"] = entry.PID
	if entry.Caller.File != "" {
		obj["caller"] = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
	}

	return json.Marshal(obj)
}

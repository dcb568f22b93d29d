package docstore

import (
	"encoding/json"
	"time"
)

const serverTimestampKey = "$serverTimestamp"

// Timestamp is the store-native time value, serialised as
// {"seconds": ..., "nanoseconds": ...}.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds"`
}

// FromTime converts a wall-clock time.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// Time converts back to a UTC wall-clock time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds)).UTC()
}

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Nanoseconds == 0
}

type serverTimestamp struct{}

// MarshalJSON encodes the sentinel as a marker resolved by the store on write.
func (serverTimestamp) MarshalJSON() ([]byte, error) {
	return []byte(`{"` + serverTimestampKey + `":true}`), nil
}

// ServerTimestamp may be used as a field value on write; the store replaces it
// with its own clock reading.
var ServerTimestamp = serverTimestamp{}

// TimestampValue extracts a Timestamp from a decoded document value.
func TimestampValue(v any) (Timestamp, bool) {
	switch t := v.(type) {
	case Timestamp:
		return t, true
	case *Timestamp:
		if t == nil {
			return Timestamp{}, false
		}
		return *t, true
	case map[string]any:
		secs, ok := numberValue(t["seconds"])
		if !ok {
			return Timestamp{}, false
		}
		nanos, _ := numberValue(t["nanoseconds"])
		return Timestamp{Seconds: int64(secs), Nanoseconds: int32(nanos)}, true
	default:
		return Timestamp{}, false
	}
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isServerTimestamp(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	flag, ok := m[serverTimestampKey].(bool)
	return ok && flag
}

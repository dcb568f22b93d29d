package docstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Encode converts a struct or map into document fields using its JSON tags.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return out, nil
}

// Decode unmarshals document fields into out. The document id is exposed
// under the "id" key unless the data already carries one.
func Decode(doc *Document, out any) error {
	if doc == nil {
		return ErrNotFound
	}
	fields := make(map[string]any, len(doc.Data)+1)
	for k, v := range doc.Data {
		fields[k] = v
	}
	if _, ok := fields["id"]; !ok {
		fields["id"] = doc.ID
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return nil
}

// prepare normalises data to its JSON form and resolves server timestamps.
func prepare(data map[string]any, now time.Time) (map[string]any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	normalized, err := Encode(data)
	if err != nil {
		return nil, err
	}
	ts := FromTime(now)
	for k, v := range normalized {
		normalized[k] = resolveSentinels(v, ts)
	}
	return normalized, nil
}

func resolveSentinels(v any, ts Timestamp) any {
	if isServerTimestamp(v) {
		return map[string]any{"seconds": float64(ts.Seconds), "nanoseconds": float64(ts.Nanoseconds)}
	}
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = resolveSentinels(inner, ts)
		}
	case []any:
		for i, inner := range t {
			t[i] = resolveSentinels(inner, ts)
		}
	}
	return v
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	out, err := Encode(data)
	if err != nil {
		// Stored data is already JSON-normalised, so this cannot fail.
		panic(err)
	}
	return out
}

// StringValue renders a field value the way equality filters compare it.
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int, int32, int64:
		return fmt.Sprintf("%d", t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

func matches(data map[string]any, where []Where) bool {
	for _, w := range where {
		v, ok := data[w.Field]
		if !ok || StringValue(v) != w.Value {
			return false
		}
	}
	return true
}

// compareValues orders missing values first, then numbers, timestamps and strings.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, _ := numberValue(a)
		fb, _ := numberValue(b)
		return compareFloat(fa, fb)
	case 2:
		ta, _ := TimestampValue(a)
		tb, _ := TimestampValue(b)
		if ta.Seconds != tb.Seconds {
			return compareFloat(float64(ta.Seconds), float64(tb.Seconds))
		}
		return compareFloat(float64(ta.Nanoseconds), float64(tb.Nanoseconds))
	default:
		return strings.Compare(StringValue(a), StringValue(b))
	}
}

func rank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := numberValue(v); ok {
		return 1
	}
	if _, ok := TimestampValue(v); ok {
		return 2
	}
	return 3
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// applyOrder sorts docs by q.OrderBy, breaking ties by id, then applies q.Limit.
func applyOrder(docs []Document, q Query) []Document {
	if q.OrderBy != nil {
		field := q.OrderBy.Field
		desc := q.OrderBy.Direction == Desc
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i].Data[field], docs[j].Data[field])
			if c == 0 {
				return docs[i].ID < docs[j].ID
			}
			if desc {
				return c > 0
			}
			return c < 0
		})
	} else {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// secondsCutoff separates second-resolution epochs from millisecond ones.
// Anything below it is treated as seconds.
const secondsCutoff = 1e12

// Millis is a Unix timestamp in milliseconds. The HackPSU API is not
// consistent about units, so decoding accepts seconds, milliseconds, numeric
// strings and date strings and always lands on milliseconds. Zero means unset.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	var raw any
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	} else {
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		raw = f
	}

	ms, ok := NormalizeTimestamp(raw)
	if !ok {
		*m = 0
		return nil
	}
	*m = Millis(ms)
	return nil
}

// MarshalJSON writes milliseconds, or null when unset.
func (m Millis) MarshalJSON() ([]byte, error) {
	if m == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// IsZero reports whether the timestamp is unset.
func (m Millis) IsZero() bool { return m == 0 }

// Time converts to time.Time in UTC.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

// NormalizeTimestamp converts numbers, numeric strings and date strings to
// Unix milliseconds. Values below 1e12 are taken as seconds.
func NormalizeTimestamp(value any) (int64, bool) {
	var numeric float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case Millis:
		return int64(v), v != 0
	case time.Time:
		if v.IsZero() {
			return 0, false
		}
		return v.UnixMilli(), true
	case int:
		numeric = float64(v)
	case int64:
		numeric = float64(v)
	case float64:
		numeric = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		numeric = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			numeric = f
			break
		}
		t, ok := parseDate(s)
		if !ok {
			return 0, false
		}
		numeric = float64(t.UnixMilli())
	default:
		return 0, false
	}

	if math.IsNaN(numeric) || math.IsInf(numeric, 0) {
		return 0, false
	}
	if numeric < secondsCutoff {
		numeric *= 1000
	}
	return int64(numeric), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

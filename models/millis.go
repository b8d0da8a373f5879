package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Millis is an epoch-millisecond timestamp. The client and the backup file
// format both carry timestamps as integer milliseconds, so we control both
// JSON un/marshaling and SQL driver encoding here instead of exposing
// time.Time directly.
type Millis int64

// NowMillis returns the current wall clock as Millis.
func NowMillis() Millis { return Millis(time.Now().UnixMilli()) }

// Time converts back to a time.Time for formatting.
func (m Millis) Time() time.Time { return time.UnixMilli(int64(m)) }

// UnmarshalJSON accepts integer milliseconds, or an RFC3339 string found in
// backup files written by older exports.
func (m *Millis) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("Millis.UnmarshalJSON: cannot parse %q: %w", s, err)
		}
		*m = Millis(t.UnixMilli())
		return nil
	}
	if s == "null" {
		*m = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("Millis.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*m = Millis(n)
	return nil
}

// MarshalJSON always emits the integer form.
func (m Millis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// Value implements driver.Valuer so GORM stores Millis as a plain integer
// column.
func (m Millis) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan implements sql.Scanner for reading the integer column back.
func (m *Millis) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case int64:
		*m = Millis(v)
		return nil
	case float64:
		*m = Millis(int64(v))
		return nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("Millis.Scan: parse %q: %w", string(v), err)
		}
		*m = Millis(n)
		return nil
	default:
		return fmt.Errorf("Millis.Scan: unsupported type %T", src)
	}
}

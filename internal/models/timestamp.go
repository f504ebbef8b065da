// ABOUTME: Second-resolution UTC timestamps used as part of record keys.
// ABOUTME: Serialized everywhere in the "2006-01-02 15:04:05" layout.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the wire and storage format of record timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a UTC instant truncated to whole seconds.
type Timestamp time.Time

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp converts t to UTC and drops sub-second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Truncate(time.Second))
}

// ParseTimestamp parses s in TimestampLayout, interpreting it as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return Timestamp{}, &ValidationError{
			Field:   "timestamp",
			Message: fmt.Sprintf("%q does not match %s", s, TimestampLayout),
		}
	}
	return Timestamp(t), nil
}

// Time returns the underlying time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// Equal reports whether t and o are the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return time.Time(t).Equal(time.Time(o))
}

// IsZero reports whether t is unset.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

// MarshalJSON encodes t as a TimestampLayout string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a TimestampLayout string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes t as a TimestampLayout string.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

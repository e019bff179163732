package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is an opaque server-assigned identifier. Some backends issue integer
// ids, others UUID strings; the client never interprets the value, so both
// decode into the same type.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	// Bare number. Validate before adopting the raw text.
	if _, err := strconv.ParseInt(string(data), 10, 64); err != nil {
		return fmt.Errorf("invalid id %q", data)
	}
	*id = ID(data)
	return nil
}

// MarshalJSON re-emits integer ids as numbers so a round trip through the
// client does not change the wire representation.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return []byte(strconv.Quote(string(id))), nil
}

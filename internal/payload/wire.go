package payload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Bytes is a byte-sequence field of a backend envelope. The backend emits either
// a JSON array of integers (0-255) or a base64 string depending on the encoder.
type Bytes []byte

// UnmarshalJSON accepts null, an integer array, or a base64 string.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case data[0] == '[':
		var ints []int
		if err := json.Unmarshal(data, &ints); err != nil {
			return fmt.Errorf("byte array: %w", err)
		}
		out := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return fmt.Errorf("byte array: element %d out of range: %d", i, v)
			}
			out[i] = byte(v)
		}
		*b = out
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("byte string: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			if decoded, err = base64.RawStdEncoding.DecodeString(s); err != nil {
				return fmt.Errorf("byte string: %w", err)
			}
		}
		*b = decoded
		return nil
	default:
		return fmt.Errorf("bytes: unexpected json %.16q", data)
	}
}

// MarshalJSON emits the integer array form.
func (b Bytes) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Uint64 is an unsigned id that may arrive as a JSON number or a quoted string.
type Uint64 uint64

// UnmarshalJSON accepts null, a number, or a decimal string.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("uint64: %w", err)
	}
	*u = Uint64(v)
	return nil
}

// Int64 is a signed integer that may arrive as a JSON number or a quoted string.
type Int64 int64

// UnmarshalJSON accepts null, a number, or a decimal string.
func (i *Int64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("int64: %w", err)
	}
	*i = Int64(v)
	return nil
}

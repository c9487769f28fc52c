package payload

import (
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// DecodeJSON validates blob as UTF-8 text and unmarshals it into v.
func DecodeJSON(blob []byte, v any) error {
	if err := ValidateUTF8(blob); err != nil {
		return err
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// ValidateUTF8 returns a DecodeError pointing at the first invalid byte.
func ValidateUTF8(blob []byte) error {
	if utf8.Valid(blob) {
		return nil
	}
	offset := 0
	for offset < len(blob) {
		r, size := utf8.DecodeRune(blob[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return &DecodeError{Offset: offset}
}

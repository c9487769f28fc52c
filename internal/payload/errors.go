package payload

import "fmt"

// DecodeError reports a byte payload that is not valid UTF-8.
type DecodeError struct {
	// Offset is the index of the first invalid byte.
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("payload is not valid utf-8 (first invalid byte at offset %d)", e.Offset)
}

// ParseError reports text that is not valid JSON for the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "payload is not valid json"
	}
	return "payload is not valid json: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

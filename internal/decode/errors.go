// internal/decode/errors.go
package decode

import "fmt"

// DecodeError reports a window too short for the field being read.
type DecodeError struct {
	Kind string
	Need int
	Have int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: need %d bytes, have %d", e.Kind, e.Need, e.Have)
}

// ParseError reports decimal text that does not start with a number.
type ParseError struct {
	Kind string
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %q is not a decimal number", e.Kind, e.Text)
}

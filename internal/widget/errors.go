package widget

import "fmt"

// ParseError means the collection as a whole is malformed (not valid JSON,
// or not an array). It is fatal for the write that carried it; per-widget
// problems are reported as warnings instead.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid widget collection: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid widget collection: %s", e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

package analysis

import "fmt"

// RequestError means the remote call could not be completed or returned no
// payload. It is not retried; callers surface it as "try again" guidance.
type RequestError struct {
	Provider string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError means the remote call succeeded but the reply does not
// deserialize into the expected shape. Raw holds the offending text for
// diagnostic logging; it is never shown to end users.
type ParseError struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s reply did not match the expected shape: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InputError means the request was rejected before any network call was made.
// The message is actionable and safe to show to the caller.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

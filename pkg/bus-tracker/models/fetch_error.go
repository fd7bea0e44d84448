package models

import "fmt"

// ErrorKind classifies why a fetch failed
type ErrorKind string

const (
	ConnectionError ErrorKind = "connection_error"
	HTTPStatusError ErrorKind = "http_status_error"
	NoJSONBody      ErrorKind = "no_json_body"
	JSONParseError  ErrorKind = "json_parse_error"
)

// JSON parse detail codes carried in FetchError.Detail
const (
	DetailInvalidInput    = "InvalidInput"
	DetailIncompleteInput = "IncompleteInput"
	DetailInvalidType     = "InvalidType"
)

// FetchError describes a failed fetch
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Err        error
}

// Descriptor is the short text shown on the board status line
func (e *FetchError) Descriptor() string {
	switch e.Kind {
	case ConnectionError:
		return "Connection failed"
	case HTTPStatusError:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	case NoJSONBody:
		return "No JSON"
	case JSONParseError:
		return "JSON: " + e.Detail
	default:
		return string(e.Kind)
	}
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Descriptor(), e.Err)
	}
	return e.Descriptor()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

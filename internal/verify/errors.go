package verify

import "fmt"

// APIError means the endpoint was reached and rejected the request.
// Message is the service's "detail" string, verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("verification rejected (status %d): %s", e.Status, e.Message)
}

// TransportError covers everything else: the endpoint could not be reached, or
// what came back could not be read as a verification response.
type TransportError struct {
	Op  string // "request", "decode", "validate"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("verification %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

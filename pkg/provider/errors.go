package provider

import "fmt"

// APIError carries the HTTP status and message returned by a remote provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// HTTPStatusCode returns the underlying status code.
func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

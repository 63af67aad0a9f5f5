package bitbucket

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrMissingSettings = errors.New("missing Bitbucket details")
	ErrAuthentication  = errors.New("authentication with Bitbucket failed")
	ErrTransport       = errors.New("request to Bitbucket failed")
	ErrMissingToken    = errors.New("it is not possible to get an access token")
)

// ResponseError is returned when Bitbucket answers with a status above 204.
type ResponseError struct {
	Url        string
	StatusCode int
	Status     string
	Body       []byte
	kind       error
}

func NewResponseError(kind error, url string, statusCode int, status string, body []byte) *ResponseError {
	return &ResponseError{Url: url, StatusCode: statusCode, Status: status, Body: body, kind: kind}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Response from Bitbucket (%s): %s. Status Code: %d\n%s\n", e.Url, e.Status, e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return e.kind
}

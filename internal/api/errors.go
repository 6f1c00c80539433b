package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the board answers outside the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("board error %d on %s %s", e.Code, e.Method, e.URL)
	}
	return fmt.Sprintf("board error %d on %s %s: %s", e.Code, e.Method, e.URL, e.Body)
}

// NotFound reports whether the board answered 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}

// ServerError is an application error reported in a 200 response, such as
// a rejected time record.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "Error: " + e.Message
}

// IsStatus reports whether err carries a board HTTP status.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

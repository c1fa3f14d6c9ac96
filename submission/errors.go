package submission

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError is returned when a submission is missing one or more required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Missing fields"
}

// Detail lists the missing fields for the server log. It is not returned to the caller.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
}

// DependencyUnavailableError is returned when the spreadsheet capability could not be
// resolved at startup.
type DependencyUnavailableError struct {
	Reason string
}

func (e *DependencyUnavailableError) Error() string {
	if e.Reason == "" {
		return "Server Error: Google Sheets client not available"
	}

	return fmt.Sprintf("Server Error: Google Sheets client not available (%s)", e.Reason)
}

// CredentialsMissingError is returned when the service account key file does not exist.
// Only the file name is reported, never the directory it was expected in.
type CredentialsMissingError struct {
	File string
}

func (e *CredentialsMissingError) Error() string {
	return fmt.Sprintf("Service Account Key not found on server. Please ensure '%s' is in the folder.", e.File)
}

// ExternalServiceError wraps any failure from authentication through to the append. The
// message is the underlying error text, unchanged.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return "external service error"
	}

	return e.Err.Error()
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Status maps a Submit error to the HTTP status reported to the caller.
func Status(err error) int {
	var validation *ValidationError

	switch {
	case err == nil:
		return http.StatusOK

	case errors.As(err, &validation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller facing text for a Submit error.
func Message(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

package spreadsheet

import (
	"context"
	"errors"

	"github.com/rdb-forms/rdb-app-sheets/submission"
)

// Unavailable is the capability used when Google Sheets could not be set up at startup.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Available() error {
	return errors.New(u.Reason)
}

func (u Unavailable) Authorize(ctx context.Context, credentials []byte) (submission.Client, error) {
	return nil, u.Available()
}

// Resolve returns the Google Sheets capability, or Unavailable if it is disabled or the
// spreadsheet URL cannot be used.
func Resolve(enabled bool, document string, options ...Option) submission.Authorizer {
	if !enabled {
		return Unavailable{Reason: "Google Sheets disabled by configuration"}
	}

	if _, err := SpreadsheetID(document); err != nil {
		return Unavailable{Reason: err.Error()}
	}

	return NewGoogle(options...)
}

// Package submission validates form submissions and appends them as rows to a
// spreadsheet worksheet.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rdb-forms/rdb-app-sheets/log"
)

// Target identifies the spreadsheet document and worksheet that receive submissions.
type Target struct {
	Document  string
	Worksheet string
}

// Config is the immutable handler configuration.
type Config struct {
	Target      Target
	Credentials string
}

// Authorizer is the spreadsheet capability, resolved once at startup.
type Authorizer interface {
	// Available returns an error if the capability could not be loaded.
	Available() error
	Authorize(ctx context.Context, credentials []byte) (Client, error)
}

// Client is an authorised spreadsheet session.
type Client interface {
	OpenWorksheet(ctx context.Context, document string, worksheet string) (Worksheet, error)
}

type Worksheet interface {
	AppendRow(ctx context.Context, row []string) error
}

// Handler appends submissions to the configured worksheet. A Handler holds no mutable
// state and is safe for concurrent use.
type Handler struct {
	config     Config
	authorizer Authorizer
	tracer     trace.Tracer
}

func NewHandler(config Config, authorizer Authorizer) *Handler {
	return &Handler{
		config:     config,
		authorizer: authorizer,
		tracer:     otel.Tracer("github.com/rdb-forms/rdb-app-sheets/submission"),
	}
}

// Submit validates the submitted fields and appends them as a single row. The service
// account key is reloaded and the client re-authorised on every call. Nothing is
// retried and the append is not idempotent.
func (h *Handler) Submit(ctx context.Context, fields map[string]any) error {
	ctx, span := h.tracer.Start(ctx, "submission.Submit", trace.WithAttributes(
		attribute.String("worksheet", h.config.Target.Worksheet),
	))
	defer span.End()

	err := h.submit(ctx, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (h *Handler) submit(ctx context.Context, fields map[string]any) error {
	record, err := Parse(fields)
	if err != nil {
		var v *ValidationError
		if errors.As(err, &v) {
			log.Warnf("Rejected submission (%v)", v.Detail())
		}
		return err
	}

	worksheet, err := h.Open(ctx)
	if err != nil {
		return err
	}

	row := record.Row()
	log.Debugf("Appending row: %v", row)

	if err := worksheet.AppendRow(ctx, row); err != nil {
		log.Errorf("Error appending row to worksheet '%v' (%v)", h.config.Target.Worksheet, err)
		return &ExternalServiceError{Err: err}
	}

	log.Infof("Appended row to worksheet '%v'", h.config.Target.Worksheet)

	return nil
}

// Open runs the capability, credential, authentication and target resolution steps
// without appending anything.
func (h *Handler) Open(ctx context.Context) (Worksheet, error) {
	if h.authorizer == nil {
		err := &DependencyUnavailableError{}
		log.Errorf("%v", err)
		return nil, err
	}

	if err := h.authorizer.Available(); err != nil {
		err := &DependencyUnavailableError{Reason: err.Error()}
		log.Errorf("%v", err)
		return nil, err
	}

	credentials, err := h.credentials()
	if err != nil {
		return nil, err
	}

	log.Debugf("Authenticating with Google")

	client, err := h.authorizer.Authorize(ctx, credentials)
	if err != nil {
		log.Errorf("Authentication/authorization error (%v)", err)
		return nil, &ExternalServiceError{Err: err}
	}

	log.Debugf("Opening worksheet '%v'", h.config.Target.Worksheet)

	worksheet, err := client.OpenWorksheet(ctx, h.config.Target.Document, h.config.Target.Worksheet)
	if err != nil {
		log.Errorf("Unable to open worksheet '%v' (%v)", h.config.Target.Worksheet, err)
		return nil, &ExternalServiceError{Err: err}
	}

	return worksheet, nil
}

func (h *Handler) credentials() ([]byte, error) {
	log.Debugf("Looking for credentials at: %v", h.config.Credentials)

	b, err := os.ReadFile(h.config.Credentials)
	if errors.Is(err, fs.ErrNotExist) {
		log.Errorf("Service account key file %v not found", h.config.Credentials)
		return nil, &CredentialsMissingError{File: filepath.Base(h.config.Credentials)}
	} else if err != nil {
		log.Errorf("Unable to read service account key file (%v)", err)

		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}

		return nil, &ExternalServiceError{Err: fmt.Errorf("unable to read '%s' (%w)", filepath.Base(h.config.Credentials), err)}
	}

	return b, nil
}

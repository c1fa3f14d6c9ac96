// Package spreadsheet implements the Google Sheets capability used to append submissions
// to a worksheet.
package spreadsheet

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rdb-forms/rdb-app-sheets/submission"
)

const (
	RAW          = "RAW"
	USER_ENTERED = "USER_ENTERED"
)

// Scopes requested for the service account: spreadsheet read/write and drive file access.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)
var spreadsheetID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Google authorises Google Sheets sessions from a service account key.
type Google struct {
	valueInputOption string
	options          []option.ClientOption
	transport        func(ctx context.Context, client *http.Client) *http.Client
}

type Option func(*Google)

// WithValueInputOption sets how appended values are interpreted, either RAW or
// USER_ENTERED.
func WithValueInputOption(v string) Option {
	return func(g *Google) {
		g.valueInputOption = v
	}
}

// WithClientOptions adds options to every Sheets service created by the capability,
// e.g. an alternative endpoint.
func WithClientOptions(options ...option.ClientOption) Option {
	return func(g *Google) {
		g.options = append(g.options, options...)
	}
}

// WithTransport wraps the authorised HTTP client, e.g. for tracing.
func WithTransport(f func(ctx context.Context, client *http.Client) *http.Client) Option {
	return func(g *Google) {
		g.transport = f
	}
}

func NewGoogle(options ...Option) *Google {
	g := Google{
		valueInputOption: RAW,
	}

	for _, opt := range options {
		opt(&g)
	}

	return &g
}

func (g *Google) Available() error {
	return nil
}

// Authorize builds a Sheets client from the service account key. The key is not
// exchanged for a token until the first API call, so an invalid or revoked key is
// reported by OpenWorksheet.
func (g *Google) Authorize(ctx context.Context, credentials []byte) (submission.Client, error) {
	config, err := google.JWTConfigFromJSON(credentials, Scopes...)
	if err != nil {
		return nil, err
	}

	client := config.Client(ctx)
	if g.transport != nil {
		client = g.transport(ctx, client)
	}

	options := append([]option.ClientOption{option.WithHTTPClient(client)}, g.options...)

	service, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("Unable to create new Sheets client (%w)", err)
	}

	return newSession(service, g.valueInputOption), nil
}

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL. A bare ID is
// returned unchanged.
func SpreadsheetID(url string) (string, error) {
	url = strings.TrimSpace(url)

	if match := spreadsheetURL.FindStringSubmatch(url); len(match) > 1 && match[1] != "" {
		return match[1], nil
	}

	if spreadsheetID.MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("Invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
}

func getSpreadsheet(ctx context.Context, google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).Fields("spreadsheetId", "sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return spreadsheet, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, name string) (*sheets.Sheet, error) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(name)) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("Unable to identify worksheet '%s'", name)
}

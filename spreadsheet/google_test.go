package spreadsheet

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const testSpreadsheetID = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"

type appended struct {
	area             string
	valueInputOption string
	insertDataOption string
	values           [][]interface{}
}

// fakeSheets emulates the token endpoint and the subset of the Sheets REST API used to
// append rows.
type fakeSheets struct {
	sync.Mutex
	*httptest.Server

	titles   []string
	tokens   int
	appended []appended
	auth     []string
}

func newFakeSheets(t *testing.T, titles ...string) *fakeSheets {
	t.Helper()

	f := fakeSheets{titles: titles}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))

	t.Cleanup(f.Close)

	return &f
}

func (f *fakeSheets) serve(w http.ResponseWriter, rq *http.Request) {
	f.Lock()
	defer f.Unlock()

	path := rq.URL.Path
	prefix := "/v4/spreadsheets/" + testSpreadsheetID

	switch {
	case path == "/token":
		f.tokens++
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "ya29.test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})

	case rq.Method == http.MethodGet && path == prefix:
		f.auth = append(f.auth, rq.Header.Get("Authorization"))

		list := []*sheets.Sheet{}
		for i, title := range f.titles {
			list = append(list, &sheets.Sheet{Properties: &sheets.SheetProperties{SheetId: int64(i), Title: title}})
		}

		writeJSON(w, http.StatusOK, sheets.Spreadsheet{SpreadsheetId: testSpreadsheetID, Sheets: list})

	case rq.Method == http.MethodPost && strings.HasPrefix(path, prefix+"/values/") && strings.HasSuffix(path, ":append"):
		f.auth = append(f.auth, rq.Header.Get("Authorization"))

		var body sheets.ValueRange
		if err := json.NewDecoder(rq.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, googleError(http.StatusBadRequest, err.Error()))
			return
		}

		f.appended = append(f.appended, appended{
			area:             strings.TrimSuffix(strings.TrimPrefix(path, prefix+"/values/"), ":append"),
			valueInputOption: rq.URL.Query().Get("valueInputOption"),
			insertDataOption: rq.URL.Query().Get("insertDataOption"),
			values:           body.Values,
		})

		writeJSON(w, http.StatusOK, sheets.AppendValuesResponse{
			SpreadsheetId: testSpreadsheetID,
			Updates: &sheets.UpdateValuesResponse{
				UpdatedRange: fmt.Sprintf("RDB!A%v:F%v", len(f.appended)+1, len(f.appended)+1),
				UpdatedCells: 6,
			},
		})

	default:
		writeJSON(w, http.StatusNotFound, googleError(http.StatusNotFound, "Requested entity was not found."))
	}
}

func googleError(code int, message string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"status":  http.StatusText(code),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func serviceAccountKey(t *testing.T, tokenURI string) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Error generating RSA key (%v)", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("Error marshalling RSA key (%v)", err)
	}

	b, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "rdb-forms",
		"private_key_id": "0123456789abcdef",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "rdb-forms@rdb-forms.iam.gserviceaccount.com",
		"client_id":      "123456789",
		"token_uri":      tokenURI,
	})
	if err != nil {
		t.Fatalf("Error creating service account key (%v)", err)
	}

	return b
}

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/1zDZoQEhg-3xIRW-Gemmm-R0lOiQ6Iiq_2ZMuQgZKJ3I/edit?gid=0#gid=0", "1zDZoQEhg-3xIRW-Gemmm-R0lOiQ6Iiq_2ZMuQgZKJ3I"},
		{"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
		{"  1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms  ", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
	}

	for _, test := range tests {
		id, err := SpreadsheetID(test.url)
		if err != nil {
			t.Errorf("Unexpected error parsing %q (%v)", test.url, err)
		} else if id != test.expected {
			t.Errorf("Incorrect spreadsheet ID for %q - expected:%v, got:%v", test.url, test.expected, id)
		}
	}
}

func TestSpreadsheetIDWithInvalidURL(t *testing.T) {
	for _, url := range []string{"", "https://example.com/spreadsheets/1234", "https://docs.google.com/spreadsheets/d/"} {
		if _, err := SpreadsheetID(url); err == nil {
			t.Errorf("Expected error parsing %q", url)
		}
	}
}

func TestGetSheet(t *testing.T) {
	spreadsheet := sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{SheetId: 1, Title: "Summary"}},
			{Properties: &sheets.SheetProperties{SheetId: 2, Title: " RDB "}},
		},
	}

	sheet, err := getSheet(&spreadsheet, "rdb")
	if err != nil {
		t.Fatalf("Unexpected error returned from getSheet (%v)", err)
	}

	if sheet.Properties.SheetId != 2 {
		t.Errorf("Incorrect sheet - expected:%v, got:%v", 2, sheet.Properties.SheetId)
	}

	if _, err := getSheet(&spreadsheet, "Responses"); err == nil {
		t.Errorf("Expected error for missing worksheet")
	}
}

func TestAppendRow(t *testing.T) {
	fake := newFakeSheets(t, "Summary", "RDB")
	g := NewGoogle(WithClientOptions(option.WithEndpoint(fake.URL + "/")))

	client, err := g.Authorize(context.Background(), serviceAccountKey(t, fake.URL+"/token"))
	if err != nil {
		t.Fatalf("Unexpected error authorising client (%v)", err)
	}

	worksheet, err := client.OpenWorksheet(context.Background(), "https://docs.google.com/spreadsheets/d/"+testSpreadsheetID+"/edit", "RDB")
	if err != nil {
		t.Fatalf("Unexpected error opening worksheet (%v)", err)
	}

	if err := worksheet.AppendRow(context.Background(), []string{"X", "A", "1", "a@b.com", "INTJ", "ok"}); err != nil {
		t.Fatalf("Unexpected error appending row (%v)", err)
	}

	expected := []appended{
		{
			area:             "'RDB'!A1",
			valueInputOption: "RAW",
			insertDataOption: "INSERT_ROWS",
			values:           [][]interface{}{{"X", "A", "1", "a@b.com", "INTJ", "ok"}},
		},
	}

	if diff := cmp.Diff(expected, fake.appended, cmp.AllowUnexported(appended{})); diff != "" {
		t.Errorf("Incorrect append request (-expected +got):\n%s", diff)
	}

	if fake.tokens == 0 {
		t.Errorf("Expected service account token exchange")
	}

	for _, auth := range fake.auth {
		if auth != "Bearer ya29.test-token" {
			t.Errorf("Incorrect Authorization header %q", auth)
		}
	}
}

func TestAppendRowWithUserEnteredValues(t *testing.T) {
	fake := newFakeSheets(t, "RDB")
	g := NewGoogle(WithValueInputOption(USER_ENTERED), WithClientOptions(option.WithEndpoint(fake.URL+"/")))

	client, err := g.Authorize(context.Background(), serviceAccountKey(t, fake.URL+"/token"))
	if err != nil {
		t.Fatalf("Unexpected error authorising client (%v)", err)
	}

	worksheet, err := client.OpenWorksheet(context.Background(), testSpreadsheetID, "rdb")
	if err != nil {
		t.Fatalf("Unexpected error opening worksheet (%v)", err)
	}

	if err := worksheet.AppendRow(context.Background(), []string{"X", "A", "1", "a@b.com", "INTJ", "ok"}); err != nil {
		t.Fatalf("Unexpected error appending row (%v)", err)
	}

	if len(fake.appended) != 1 {
		t.Fatalf("Expected 1 append request, got %v", len(fake.appended))
	}

	if fake.appended[0].valueInputOption != "USER_ENTERED" {
		t.Errorf("Incorrect valueInputOption - expected:%v, got:%v", "USER_ENTERED", fake.appended[0].valueInputOption)
	}

	if fake.appended[0].area != "'RDB'!A1" {
		t.Errorf("Incorrect range - expected:%v, got:%v", "'RDB'!A1", fake.appended[0].area)
	}
}

func TestOpenWorksheetWithMissingWorksheet(t *testing.T) {
	fake := newFakeSheets(t, "Summary")
	g := NewGoogle(WithClientOptions(option.WithEndpoint(fake.URL + "/")))

	client, err := g.Authorize(context.Background(), serviceAccountKey(t, fake.URL+"/token"))
	if err != nil {
		t.Fatalf("Unexpected error authorising client (%v)", err)
	}

	if _, err := client.OpenWorksheet(context.Background(), testSpreadsheetID, "RDB"); err == nil {
		t.Fatalf("Expected error opening missing worksheet")
	} else if !strings.Contains(err.Error(), "RDB") {
		t.Errorf("Expected error to name the worksheet, got %v", err)
	}
}

func TestOpenWorksheetWithUnknownSpreadsheet(t *testing.T) {
	fake := newFakeSheets(t, "RDB")
	g := NewGoogle(WithClientOptions(option.WithEndpoint(fake.URL + "/")))

	client, err := g.Authorize(context.Background(), serviceAccountKey(t, fake.URL+"/token"))
	if err != nil {
		t.Fatalf("Unexpected error authorising client (%v)", err)
	}

	if _, err := client.OpenWorksheet(context.Background(), "1zDZoQEhg-3xIRW-Gemmm-R0lOiQ6Iiq_2ZMuQgZKJ3I", "RDB"); err == nil {
		t.Fatalf("Expected error opening unknown spreadsheet")
	}
}

func TestAuthorizeWithInvalidKey(t *testing.T) {
	g := NewGoogle()

	if _, err := g.Authorize(context.Background(), []byte(`{"type":"service_account"`)); err == nil {
		t.Fatalf("Expected error authorising with malformed service account key")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		document  string
		available bool
	}{
		{"enabled", true, "https://docs.google.com/spreadsheets/d/" + testSpreadsheetID + "/edit", true},
		{"disabled", false, "https://docs.google.com/spreadsheets/d/" + testSpreadsheetID + "/edit", false},
		{"invalid URL", true, "https://example.com/sheet", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			capability := Resolve(test.enabled, test.document)

			if err := capability.Available(); test.available && err != nil {
				t.Errorf("Expected capability to be available, got %v", err)
			} else if !test.available && err == nil {
				t.Errorf("Expected capability to be unavailable")
			}
		})
	}
}

func TestUnavailableAuthorize(t *testing.T) {
	u := Unavailable{Reason: "Google Sheets disabled by configuration"}

	if _, err := u.Authorize(context.Background(), nil); err == nil || err.Error() != u.Reason {
		t.Errorf("Expected %q, got %v", u.Reason, err)
	}
}

func TestUnavailableReason(t *testing.T) {
	u := Unavailable{Reason: "invalid spreadsheet URL 'https://example.com/sheet?x=100%'"}

	if err := u.Available(); err == nil || err.Error() != u.Reason {
		t.Errorf("Expected %q, got %v", u.Reason, err)
	}
}

package httpd

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/submission"
)

//go:embed html
var HTML embed.FS

const maxRequestSize = 1 << 20

var index = template.Must(template.New("index.html").ParseFS(HTML, "html/index.html"))

// Result is the JSON reply to a submission.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type handlers struct {
	submissions *submission.Handler
	title       string
}

func (h *handlers) index(w http.ResponseWriter, rq *http.Request) {
	page := map[string]any{
		"Title":  h.title,
		"Fields": submission.Fields,
		"Action": "/api/submit",
	}

	var b bytes.Buffer
	if err := index.Execute(&b, page); err != nil {
		log.Errorf("%v  error formatting page (%v)", RequestID(rq.Context()), err)
		http.Error(w, "Error formatting page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

// submit decodes the JSON body and appends it to the worksheet. The external call runs on
// a context detached from the request so a client disconnect does not abort it.
func (h *handlers) submit(w http.ResponseWriter, rq *http.Request) {
	id := RequestID(rq.Context())

	var fields map[string]any

	decoder := json.NewDecoder(http.MaxBytesReader(w, rq.Body, maxRequestSize))
	decoder.UseNumber()

	if err := decoder.Decode(&fields); err != nil {
		log.Warnf("%v  invalid submission (%v)", id, err)
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Message: "Invalid JSON"})
		return
	}

	if _, err := decoder.Token(); err != io.EOF {
		log.Warnf("%v  invalid submission (trailing data after JSON object)", id)
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Message: "Invalid JSON"})
		return
	}

	if err := h.submissions.Submit(context.WithoutCancel(rq.Context()), fields); err != nil {
		var v *submission.ValidationError
		if !errors.As(err, &v) {
			log.Errorf("%v  CRITICAL ERROR saving to sheet (%v)", id, err)
		}

		writeJSON(w, submission.Status(err), Result{Success: false, Message: submission.Message(err)})
		return
	}

	writeJSON(w, http.StatusOK, Result{Success: true})
}

func healthz(w http.ResponseWriter, rq *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warnf("error writing response (%v)", err)
	}
}

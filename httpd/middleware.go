package httpd

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/rdb-forms/rdb-app-sheets/log"
)

type contextKey struct{}

var requestIDKey = contextKey{}

// RequestID returns the ID assigned to the request by the requestID middleware.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}

	return "-"
}

// requestID tags each request with a UUID, echoed in the X-Request-Id response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		id := uuid.NewString()

		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, rq.WithContext(context.WithValue(rq.Context(), requestIDKey, id)))
	})
}

func logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, rq.ProtoMajor)

		next.ServeHTTP(ww, rq)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log.Infof("%v  %s %s %d %s", RequestID(rq.Context()), rq.Method, rq.URL.Path, status, time.Since(start).Round(time.Millisecond))
	})
}

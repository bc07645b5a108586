// Package httputil holds the response and middleware helpers shared by
// the guest and staff HTTP surfaces.
package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID stamps every request with a fresh id, exposed both on
// the response header and through RequestIDFrom for log correlation.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem renders errors in a simplified problem+json shape.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// PathInt parses an integer path value, -1 when absent or malformed.
func PathInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.PathValue(key))
	if err != nil {
		return -1
	}
	return n
}

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// HealthGrabberEntry reports the health of one component.
type HealthGrabberEntry struct {
	Name string
	Grab func(ctx context.Context) (statusCode int, bodyMsg string)
}

// MakeHealthHandler returns a handler writing one line per entry. The response status is the
// highest status code reported by any entry.
func MakeHealthHandler(entries []HealthGrabberEntry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		var b strings.Builder
		for _, e := range entries {
			code, msg := e.Grab(r.Context())
			if code > status {
				status = code
			}
			b.WriteString(formatMsg(e.Name, code, msg))
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(b.String())) //nolint:errcheck
	}
}

func formatMsg(name string, code int, msg string) string {
	return fmt.Sprintf("%s: [%d] %s\n", name, code, msg)
}

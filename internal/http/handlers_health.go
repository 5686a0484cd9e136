package httpx

import (
	"io"
	"net/http"
)

const healthBody = `{"status":"ok"}`

// healthHandler answers readiness and liveness probes. HEAD gets headers only.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// A failed write means the prober went away.
	_, _ = io.WriteString(w, healthBody)
}

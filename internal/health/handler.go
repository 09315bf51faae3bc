// Package health exposes the liveness endpoint.
package health

import (
	"net/http"
)

// Handler responds to health checks with a static OK payload.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

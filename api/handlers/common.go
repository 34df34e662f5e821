package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// currentActor identifies the operator for audit entries. There is no auth
// layer in front of this service; the reverse proxy forwards the identity.
func currentActor(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Operator")); v != "" {
		return v
	}
	return "operator"
}

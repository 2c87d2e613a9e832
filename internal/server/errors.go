package server

import (
	"encoding/json"
	"net/http"
)

// apiError is the body of every JSON error the server writes.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError answers with status and an apiError body. A bad selection
// is a 400, an unknown panel slot or route a 404, and a failed build or
// render a 500.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSONStatus(w, status, apiError{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, v any) { writeJSONStatus(w, http.StatusOK, v) }

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, http.StatusNotFound, "not found", r.URL.Path)
}

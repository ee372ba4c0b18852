// Package httputil provides the two response helpers the Control API
// and mock server listener share: pkg/controlapi's handlers encode
// every status/list/mismatch body through WriteJSON and answer DELETE
// with WriteNoContent (spec §4.5, §6), and pkg/mockserver's listener
// reuses WriteJSON for the JSON mismatch body a non-matching request
// gets back (spec §4.3, §6), after setting its own
// X-Pact-Unrecognized-Request header.
package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

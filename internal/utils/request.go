package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// 400 failure envelope and returns the error, so callers can just return.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteFailureResponse(w, http.StatusBadRequest, "Invalid request body")
		return err
	}
	return nil
}

// FormatTimestamp renders a timestamp the way all responses do
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

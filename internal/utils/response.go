package utils

import (
	"encoding/json"
	"net/http"

	"FINTRACK_BACK-END/internal/dto"
)

// Envelope is the uniform response wrapper returned by every endpoint.
// StatusCode always mirrors the HTTP status code of the response.
type Envelope struct {
	Status     bool   `json:"status"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteSuccessResponse writes a success envelope with the given payload
func WriteSuccessResponse(w http.ResponseWriter, statusCode int, data any, message string) {
	WriteJSONResponse(w, statusCode, Envelope{
		Status:     true,
		Data:       data,
		Message:    message,
		StatusCode: statusCode,
	})
}

// WriteFailureResponse writes a failure envelope with a nil data field
func WriteFailureResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, Envelope{
		Status:     false,
		Data:       nil,
		Message:    message,
		StatusCode: statusCode,
	})
}

// WriteErrorResponse writes a plain error body outside the envelope. Used by
// the authentication layer, which rejects requests before handler logic runs.
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

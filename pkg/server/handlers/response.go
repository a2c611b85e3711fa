package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSONResponse writes data as a JSON response with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes errResp with statusCode.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp *ErrorResponse) error {
	return WriteJSONResponse(w, statusCode, errResp)
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventtrail/eventtrail-go/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(category, msg string) map[string]string {
	return map[string]string{"error": category, "message": msg}
}

func validationResponse(fields []validation.FieldError) map[string]any {
	return map[string]any{"error": "Validation failed", "details": fields}
}

func internalError(w http.ResponseWriter, category string, err error) {
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse(category, "internal server error"))
}

// decodeBody decodes a size-capped JSON body into dst, writing the error
// response itself when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("Request too large", "request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid request", "invalid request body"))
		return false
	}

	return true
}

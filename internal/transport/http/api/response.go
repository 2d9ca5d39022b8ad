package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"review360/internal/domain/scoring"
)

type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// StatusFor maps a scoring error kind to its HTTP status.
func StatusFor(kind scoring.Kind) int {
	switch kind {
	case scoring.KindValidation:
		return http.StatusBadRequest
	case scoring.KindNotFound:
		return http.StatusNotFound
	case scoring.KindDataUnavailable:
		return http.StatusServiceUnavailable
	case scoring.KindConfiguration:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FailError writes err as an envelope. Scoring errors keep their message and
// hint; anything else is logged and reported as an internal error.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var scoringErr *scoring.Error
	if !errors.As(err, &scoringErr) {
		slog.Error("request failed", "requestId", requestID, "err", err)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
		return
	}
	status := StatusFor(scoringErr.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "requestId", requestID, "kind", scoringErr.Kind, "err", err)
	} else if scoringErr.Err != nil {
		slog.Warn("request rejected", "requestId", requestID, "kind", scoringErr.Kind, "err", err)
	}
	var details map[string]any
	if scoringErr.Hint != "" {
		details = map[string]any{"hint": scoringErr.Hint}
	}
	FailWithDetails(w, status, string(scoringErr.Kind), scoringErr.Message, details, requestID)
}

package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tito24dxb/bk/ledger"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteEngineError maps ledger error kinds to HTTP responses. Transient
// failures return 503 so clients know a bounded retry is safe.
func WriteEngineError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	var blocked *ledger.PolicyBlockedError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, APIResponse{Success: false, Message: verr.Error()})
	case errors.As(err, &blocked):
		WriteJSON(w, http.StatusForbidden, APIResponse{Success: false, Message: blocked.Message})
	case errors.Is(err, ledger.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, APIResponse{Success: false, Message: "Record not found"})
	case errors.Is(err, ledger.ErrDuplicate):
		WriteJSON(w, http.StatusConflict, APIResponse{Success: false, Message: "Record already exists"})
	case errors.Is(err, ledger.ErrInvalidState):
		WriteJSON(w, http.StatusConflict, APIResponse{Success: false, Message: "Request has already been processed"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		WriteJSON(w, http.StatusUnprocessableEntity, APIResponse{Success: false, Message: "Insufficient balance"})
	case errors.Is(err, ledger.ErrTransient):
		WriteJSON(w, http.StatusServiceUnavailable, APIResponse{Success: false, Message: "Temporary failure, please retry"})
	default:
		WriteJSON(w, http.StatusInternalServerError, APIResponse{Success: false, Message: "Internal server error"})
	}
}

// GetStringValue returns the value of a nullable string pointer or empty string if nil
func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

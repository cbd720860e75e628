package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velora/auth-service/domain/apperror"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Success: true, Data: data})
}

// Failure maps a typed failure to its status code and body. Anything untyped
// becomes an opaque internal error.
func Failure(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "INTERNAL", Message: "internal server error"},
		})
		return
	}
	WriteJSON(w, apperror.HTTPStatus(appErr), Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(appErr.Code), Message: appErr.Message},
	})
}

func TooManyRequests(w http.ResponseWriter) {
	WriteJSON(w, http.StatusTooManyRequests, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "RATE_3001", Message: "too many attempts, try again later"},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(apperror.CodeValidation), Message: message},
	})
}

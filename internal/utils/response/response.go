package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
	"github.com/princekumarofficial/portfolio-service/internal/types/media"
)

type Response struct {
	Status  string      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errorMessages string
	for _, err := range errs {
		errorMessages += err.Field() + ": " + err.Tag() + "; "
	}

	return Response{
		Status: StatusError,
		Error:  errorMessages,
	}
}

func RequestOK(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, media.ErrKindMismatch),
		errors.Is(err, media.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse builds the error body for err. Internal errors are not
// echoed to the client.
func ErrorResponse(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ValidationError(ve)
	}
	if StatusFor(err) == http.StatusInternalServerError {
		return GeneralError(errors.New("internal server error"))
	}
	return GeneralError(err)
}

// WriteError writes err with the status StatusFor picks.
func WriteError(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusFor(err), ErrorResponse(err))
}

package response

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mercadito-app/storefront-api/internal/errors"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
	}

	WriteJson(w, statusCode, response)
}

func Error(w http.ResponseWriter, err error) {

	var statusCode int
	var errorResponse *ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}

	} else {
		statusCode = http.StatusInternalServerError
		errorResponse = &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		}
	}

	WriteJson(w, statusCode, APIResponse{Success: false, Error: errorResponse})
}

func GeneralError(err error) APIResponse {
	return APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    errors.ErrCodeBadRequest,
			Message: err.Error(),
		},
	}
}

func ValidationError(errs validator.ValidationErrors) APIResponse {

	var details []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			details = append(details, "field "+err.Field()+" is a required field")
		case "gt":
			details = append(details, "field "+err.Field()+" must be greater than "+err.Param())
		case "min":
			details = append(details, "field "+err.Field()+" must be at least "+err.Param())
		default:
			details = append(details, "field "+err.Field()+" is invalid")
		}
	}

	return APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    errors.ErrCodeValidation,
			Message: "Invalid input: " + strings.Join(details, ", "),
			Details: details,
		},
	}
}

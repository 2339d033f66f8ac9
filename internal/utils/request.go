package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/utils/response"
)

func DecodeJSONBody(r *http.Request, dest any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dest)

	if errors.Is(err, io.EOF) {
		return apperrors.BadRequestError("Request body cannot be empty")
	}

	if err != nil {
		return apperrors.BadRequestError("Malformed request body").WithError(err)
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	return validate.Struct(data)
}

// ParseAndValidate decodes the body into dest and validates it, writing the
// error response itself. Returns false if the handler should bail out.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, err)

		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		slog.Warn("Validation failed", slog.String("error", err.Error()))

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.WriteJson(w, http.StatusBadRequest, response.ValidationError(validationErrs))
		} else {
			response.Error(w, apperrors.ValidationError("invalid input data").WithError(err))
		}

		return false
	}

	return true
}

// ParseID reads a UUID path parameter.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, apperrors.BadRequestError("Missing " + name + " parameter")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}

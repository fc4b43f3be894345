package handler

import (
	"errors"
	"strings"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Register custom validation for viewer access levels
	_ = v.RegisterValidation("access_level", validateAccessLevel)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// validateAccessLevel checks the access_level tag: read or write only
func validateAccessLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case domain.AccessLevelRead, domain.AccessLevelWrite:
		return true
	}
	return false
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "email":
			errs[field] = "Must be a valid email address"
		case "max":
			errs[field] = "Value is too long"
		case "min":
			errs[field] = "Value is too short"
		case "access_level":
			errs[field] = ErrMsgInvalidAccessLevelErr
		case "oneof":
			errs[field] = "Value is not one of the allowed options"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

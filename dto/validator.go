package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their json name so error maps line up with the wire
	// format the client sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func GetValidator() *validator.Validate {
	return validate
}

type Validator interface {
	Validate() error
}

// FormatValidationErrors flattens validator.ValidationErrors into a
// field -> message map. Every violation is reported; nothing short-circuits.
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request"
		return errors
	}

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		if _, seen := errors[field]; seen {
			continue
		}

		var message string
		switch fieldError.Tag() {
		case "required":
			message = field + " is required"
		case "email":
			message = "Invalid email format"
		case "min":
			if fieldError.Kind() == reflect.String {
				message = field + " must be at least " + fieldError.Param() + " characters"
			} else {
				message = field + " must be at least " + fieldError.Param()
			}
		case "max":
			if fieldError.Kind() == reflect.String {
				message = field + " must be at most " + fieldError.Param() + " characters"
			} else {
				message = field + " must be at most " + fieldError.Param()
			}
		case "gte":
			message = field + " must be at least " + fieldError.Param()
		case "lte":
			message = field + " must be at most " + fieldError.Param()
		case "oneof":
			message = field + " must be one of: " + fieldError.Param()
		case "dive":
			message = field + " contains invalid items"
		default:
			message = field + " is invalid"
		}

		errors[field] = message
	}

	return errors
}

// ErrorMap shapes any validation failure as a field -> message map,
// whether it came from validator/v10 tags or hand-written checks.
func ErrorMap(err error) map[string]string {
	if fieldErrs, ok := err.(FieldErrors); ok {
		return fieldErrs
	}
	return FormatValidationErrors(err)
}

type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func CreateValidationErrorResponse(err error) ValidationErrorResponse {
	return ValidationErrorResponse{
		Code:    400,
		Message: "Validation failed",
		Errors:  ErrorMap(err),
	}
}

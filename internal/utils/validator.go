// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/catalog-admin/internal/models"
)

var validate *validator.Validate

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("hex_color", validateHexColor)
	validate.RegisterValidation("printable", validatePrintable)
	validate.RegisterValidation("size_field", validateSizeField)
	validate.RegisterValidation("policy_kind", validatePolicyKind)
	validate.RegisterValidation("policy_field", validatePolicyField)
	validate.RegisterValidation("filter_field", validateFilterField)
	validate.RegisterValidation("size_unit", validateSizeUnit)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value such as a path parameter against a tag.
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorPattern.MatchString(fl.Field().String())
}

// validatePrintable rejects control characters such as CR and LF.
func validatePrintable(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validateSizeField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.SizeFieldSKU, models.SizeFieldStock:
		return true
	}
	return false
}

func validatePolicyKind(fl validator.FieldLevel) bool {
	return models.PolicyKind(fl.Field().String()).Valid()
}

func validatePolicyField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "title", "description":
		return true
	}
	return false
}

func validateFilterField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "key", "value":
		return true
	}
	return false
}

func validateSizeUnit(fl validator.FieldLevel) bool {
	return models.Unit(fl.Field().String()).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "hex_color":
		return e.Field() + " must be a hex color such as #1a2b3c"
	case "printable":
		return e.Field() + " must not contain control characters"
	case "size_field":
		return e.Field() + " must be sku or stock"
	case "policy_kind":
		return e.Field() + " must be one of shipping, codPolicy, returnPolicy, exchangePolicy, cancellationPolicy"
	case "policy_field":
		return e.Field() + " must be title or description"
	case "filter_field":
		return e.Field() + " must be key or value"
	case "size_unit":
		return e.Field() + " must be in or cm"
	default:
		return e.Field() + " is invalid"
	}
}

package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"raincheck/internal/types"
)

// Validator wraps go-playground/validator to translate struct validation
// failures into structured AppErrors with per-field details.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a new Validator.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{
		validate: validator.New(),
		logger:   logger,
	}
}

// ValidateStruct validates dst against its `validate` struct tags. On failure
// it returns a *types.AppError with a details map of field name (snake_cased)
// to a human-readable constraint message. A single failing field gets its
// specific error code (missing field, invalid latitude, and so on); multiple
// failures collapse to "validation_failed".
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: dst was not a struct. Programming error.
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation target is not a struct", err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[snakeCase(fe.Field())] = constraintMessage(fe)
	}

	code := types.ErrCodeValidationFailed
	if len(verrs) == 1 {
		code = errorCode(verrs[0])
	}

	return types.NewAppErrorWithDetails(
		code,
		"request validation failed",
		err,
		details,
	)
}

// errorCode picks the specific error code for a single field failure.
func errorCode(fe validator.FieldError) types.ErrorCode {
	if fe.Tag() == "required" {
		return types.ErrCodeValidationMissingField
	}
	switch snakeCase(fe.Field()) {
	case "latitude":
		return types.ErrCodeValidationInvalidLat
	case "longitude":
		return types.ErrCodeValidationInvalidLon
	case "date":
		return types.ErrCodeValidationInvalidDate
	case "threshold":
		return types.ErrCodeValidationThresholdRange
	case "alert_type":
		return types.ErrCodeValidationAlertType
	case "condition":
		return types.ErrCodeValidationAlertCondition
	default:
		return types.ErrCodeValidationFailed
	}
}

// constraintMessage renders a single field error as a client-readable message.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "latitude":
		return "must be a valid latitude between -90 and 90"
	case "longitude":
		return "must be a valid longitude between -180 and 180"
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}

// snakeCase converts an exported Go field name to its snake_case JSON form.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

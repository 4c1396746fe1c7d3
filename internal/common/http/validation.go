package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CheckStruct evaluates the struct's tag constraints. Returns nil when
// the value conforms, otherwise a field → reason map for the error
// envelope details.
func CheckStruct(v any) map[string]any {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"_": err.Error()}
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = fieldMessage(fe)
	}
	return details
}

// ValidateRequest rejects a non-conforming payload with a 400 envelope.
// Returns false when the request was rejected.
func ValidateRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	details := CheckStruct(v)
	if details == nil {
		return true
	}

	WriteErrorEnvelope(w, http.StatusBadRequest, CodeValidationFailed, "validation failed", details, getTraceIDFromContext(r.Context()))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}

func ValidateUUID(s string) error {
	_, err := uuid.Parse(s)
	return err
}

// ExtractIDFromPath pulls the trailing id segment from a resource path
// like /api/expenses/<id>.
func ExtractIDFromPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	remaining := strings.TrimPrefix(path, prefix)
	parts := strings.Split(remaining, "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0], true
	}

	return "", false
}

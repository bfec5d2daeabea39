package summary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := LanguageCode(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("length", func(fl validator.FieldLevel) bool {
		_, ok := WordCount(fl.Field().String())
		return ok
	})
	return v
}

// formatValidationError turns validator errors into one readable message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "http_url":
		return "please enter a valid URL (YouTube or website)"
	case "language":
		return fmt.Sprintf("unsupported language %q", e.Value())
	case "length":
		return fmt.Sprintf("unsupported summary length %q", e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

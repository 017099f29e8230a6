// Package contact validates contact-form submissions and hands them to a
// relay (Formspree, SMTP) after recording them.
package contact

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MinMessageLength is the shortest accepted message, in characters, after
// trimming.
const MinMessageLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a contact-form submission as posted by the browser.
type Form struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,contactemail"`
	Message string `form:"message" json:"message" validate:"required,min=10"`
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Field error codes.
const (
	CodeRequired = "required"
	CodeEmail    = "email"
	CodeMin      = "min"
)

// FieldErrors maps a form field (name, email, message) to an error code.
type FieldErrors map[string]string

// MessageKey returns the translation key for a field's error.
func (fe FieldErrors) MessageKey(field string) string {
	switch fe[field] {
	case "":
		return ""
	case CodeEmail:
		return "emailInvalid"
	case CodeMin:
		return "messageMinLength"
	default:
		return field + "Error"
	}
}

// ValidationError wraps the field errors of a rejected form.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for _, k := range []string{"name", "email", "message"} {
		if code, ok := e.Fields[k]; ok {
			keys = append(keys, k+":"+code)
		}
	}
	return "invalid contact form: " + strings.Join(keys, ", ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks a normalized form. It returns nil when the form is valid.
func Validate(f Form) FieldErrors {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = CodeRequired
		case "contactemail":
			out[field] = CodeEmail
		case "min":
			out[field] = CodeMin
		default:
			out[field] = fe.Tag()
		}
	}
	return out
}

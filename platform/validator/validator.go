// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Custom tags registered by New.
const (
	TagLeadURL   = "leadurl"
	TagLeadEmail = "leademail"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the leadurl and leademail rules registered.
func New() *Validator {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TagLeadURL, func(fl validator.FieldLevel) bool {
		return IsLeadURL(fl.Field().String())
	})
	_ = v.RegisterValidation(TagLeadEmail, func(fl validator.FieldLevel) bool {
		return IsLeadEmail(fl.Field().String())
	})
	return &Validator{v: v}
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// IsLeadURL reports whether raw parses as a URL with both scheme and host.
func IsLeadURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsLeadEmail reports whether address has a plausible email shape.
func IsLeadEmail(address string) bool {
	return emailPattern.MatchString(address)
}

package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/go-playground/validator/v10"
)

// passwordSymbols is the set a password must draw at least one symbol from.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

const minPasswordLength = 8

// Validator wraps go-playground/validator and reports failures as a
// *common.ValidationError listing one message per violated field rule.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Violations returns the rule violations of s, in field order.
func (v *Validator) Violations(s any) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, violationMessage(fe))
	}
	return out
}

// Validate returns nil or a *common.ValidationError.
func (v *Validator) Validate(s any) error {
	if violations := v.Violations(s); len(violations) > 0 {
		return common.NewValidationError(violations...)
	}
	return nil
}

func violationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// PasswordViolations lists every password rule the candidate breaks.
func PasswordViolations(password string) []string {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	var out []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		out = append(out, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	if !hasUpper {
		out = append(out, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		out = append(out, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		out = append(out, "password must contain at least one number")
	}
	if !hasSymbol {
		out = append(out, "password must contain at least one special character ("+passwordSymbols+")")
	}
	return out
}

package service

import (
	"errors"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Password policy.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the shelf tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return ValidatePassword(fl.Field().String()) == nil
		})
	})
	return validate
}

// ValidatePassword enforces the password policy: at least eight characters
// mixing upper case, lower case, a digit and a symbol.
func ValidatePassword(pw string) error {
	n := utf8.RuneCountInString(pw)
	if n < MinPasswordLength {
		return invalid("password", "must be at least 8 characters")
	}
	if n > MaxPasswordLength {
		return invalid("password", "must be at most 128 characters")
	}

	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}

	switch {
	case !upper:
		return invalid("password", "must contain an upper case letter")
	case !lower:
		return invalid("password", "must contain a lower case letter")
	case !digit:
		return invalid("password", "must contain a digit")
	case !special:
		return invalid("password", "must contain a special character")
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// check runs struct validation and turns the first failure into a
// ValidationError.
func check(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("", err.Error())
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return invalid(field, "is required")
	case "min":
		return invalid(field, "must be at least "+fe.Param()+" characters")
	case "max":
		return invalid(field, "must be at most "+fe.Param()+" characters")
	case "email":
		return invalid(field, "must be a valid email address")
	case "strongpassword":
		return ValidatePassword(fe.Value().(string))
	case "eqfield":
		return invalid(field, "does not match")
	case "len", "numeric":
		return invalid(field, "must be a 6 digit code")
	case "url", "http_url":
		return invalid(field, "must be an http(s) URL")
	case "gte", "lte":
		return invalid(field, "is out of range")
	case "oneof":
		return invalid(field, "must be one of "+fe.Param())
	default:
		return invalid(field, "is invalid")
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

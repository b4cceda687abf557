package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Frequently breached passwords, compared case-insensitively.
var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password12":  true,
	"password123": true,
	"passw0rd":    true,
	"123456":      true,
	"12345678":    true,
	"123456789":   true,
	"1234567890":  true,
	"qwerty":      true,
	"qwerty123":   true,
	"qwertyuiop":  true,
	"abc123":      true,
	"abcd1234":    true,
	"letmein":     true,
	"welcome":     true,
	"welcome1":    true,
	"monkey":      true,
	"dragon":      true,
	"sunshine":    true,
	"iloveyou":    true,
	"princess":    true,
	"football":    true,
	"baseball":    true,
	"admin":       true,
	"admin123":    true,
	"trustno1":    true,
	"master":      true,
	"secret":      true,
	"changeme":    true,
	"aa123456":    true,
	"1q2w3e4r":    true,
}

// PasswordPolicy bounds password length and character variety.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // of: upper, lower, digit, symbol
}

// DefaultPasswordPolicy is 8-128 characters from at least two classes.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 2,
	}
}

func charClasses(s string) int {
	var upper, lower, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			other = true
		}
	}
	n := 0
	for _, ok := range []bool{upper, lower, digit, other} {
		if ok {
			n++
		}
	}
	return n
}

func StrongPassword(field, value string, policy PasswordPolicy) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			if n < policy.MinLength || n > policy.MaxLength {
				return false
			}
			return charClasses(value) >= policy.MinCharClasses
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf("password must be %d-%d characters and mix at least %d of: uppercase, lowercase, digits, symbols",
				policy.MinLength, policy.MaxLength, policy.MinCharClasses),
			TranslationKey: "validation.password_strength",
			TranslationValues: map[string]any{
				"field":            field,
				"min_length":       policy.MinLength,
				"max_length":       policy.MaxLength,
				"min_char_classes": policy.MinCharClasses,
			},
		},
	}
}

func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:          field,
			Message:        "password is too common, please choose a different one",
			TranslationKey: "validation.password_common",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

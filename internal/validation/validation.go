// Package validation evaluates declarative per-field rule lists against
// decoded request bodies. Rules run in declaration order and every failing
// rule contributes an error, so a missing numeric field reports its
// required, numeric and range violations together.
package validation

import (
	"net/mail"
	"strconv"
)

// FieldError is a single validation failure, tied to the input field that
// caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule is one check applied to a field value.
type Rule struct {
	Check   func(value any) bool
	Message string
}

// Field pairs an input value with the ordered rules that apply to it.
type Field struct {
	Name  string
	Value any
	Rules []Rule
}

// Validate evaluates every rule of every field in order and returns the
// accumulated failures. A nil result means the input is valid.
func Validate(fields ...Field) []FieldError {
	var errs []FieldError
	for _, f := range fields {
		for _, r := range f.Rules {
			if !r.Check(f.Value) {
				errs = append(errs, FieldError{Field: f.Name, Message: r.Message})
			}
		}
	}
	return errs
}

// Required fails on absent values and empty strings.
func Required(message string) Rule {
	return Rule{
		Check: func(v any) bool {
			switch t := v.(type) {
			case nil:
				return false
			case string:
				return t != ""
			default:
				return true
			}
		},
		Message: message,
	}
}

// Email fails unless the value is a parseable email address.
func Email(message string) Rule {
	return Rule{
		Check: func(v any) bool {
			s, ok := v.(string)
			if !ok || s == "" {
				return false
			}
			addr, err := mail.ParseAddress(s)
			return err == nil && addr.Address == s
		},
		Message: message,
	}
}

// MinLength fails unless the value is a string of at least n characters.
func MinLength(n int, message string) Rule {
	return Rule{
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && len(s) >= n
		},
		Message: message,
	}
}

// Length fails unless the value is a string of exactly n characters.
func Length(n int, message string) Rule {
	return Rule{
		Check: func(v any) bool {
			s, ok := v.(string)
			return ok && len(s) == n
		},
		Message: message,
	}
}

// Numeric fails unless the value is a JSON number or a numeric string.
func Numeric(message string) Rule {
	return Rule{
		Check: func(v any) bool {
			_, ok := ToFloat(v)
			return ok
		},
		Message: message,
	}
}

// GreaterThan fails unless the value is numeric and above the limit.
func GreaterThan(limit float64, message string) Rule {
	return Rule{
		Check: func(v any) bool {
			f, ok := ToFloat(v)
			return ok && f > limit
		},
		Message: message,
	}
}

// ToFloat converts a decoded JSON value to a float64. JSON numbers decode
// to float64 already; numeric strings are accepted the way the API always
// has.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

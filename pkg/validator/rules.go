package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// RequiredString fails for empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required", Key: "validation.required"},
	}
}

// MaxLenString limits the length in runes.
func MaxLenString(field, value string, maxLen int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= maxLen },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", maxLen),
			Key:     "validation.max_length",
		},
	}
}

// LenString requires an exact length in runes.
func LenString(field, value string, exact int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) == exact },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be exactly %d characters long", exact),
			Key:     "validation.length",
		},
	}
}

// Positive requires value > 0. Used for database identifiers.
func Positive[T Numeric](field string, value T) Rule {
	return Rule{
		Check: func() bool { return value > 0 },
		Error: ValidationError{Field: field, Message: "must be a positive number", Key: "validation.positive"},
	}
}

// OneOf requires value to be one of the allowed options.
func OneOf[T ~string](field string, value T, allowed ...T) Rule {
	opts := make([]string, len(allowed))
	for i, a := range allowed {
		opts[i] = string(a)
	}
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: "must be one of: " + strings.Join(opts, ", "),
			Key:     "validation.one_of",
		},
	}
}

// When applies r only if cond holds.
func When(cond bool, r Rule) Rule {
	return Rule{
		Check: func() bool { return !cond || r.Check() },
		Error: r.Error,
	}
}

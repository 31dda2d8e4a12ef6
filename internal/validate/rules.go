package validate

import (
	"fmt"
	"regexp"
	"strings"
)

type ruleKind int

const (
	ruleTrim ruleKind = iota
	ruleOptional
	ruleRequired
	ruleLengthRange
	rulePattern
	ruleEmail
	ruleURL
	ruleInteger
	ruleOneOf
)

// Rule is one element of a field's declarative rule chain. Rules apply in
// declared order; transforms (Trim) rewrite the value, predicates record a
// violation and evaluation continues so every failing rule is reported.
type Rule struct {
	kind    ruleKind
	min     int
	max     int
	re      *regexp.Regexp
	message string
	schemes []string
	choices []string
}

// Trim rewrites the value with leading/trailing whitespace removed.
func Trim() Rule {
	return Rule{kind: ruleTrim}
}

// Optional stops the chain without a violation when the value is empty.
func Optional() Rule {
	return Rule{kind: ruleOptional}
}

// Required records a violation when the value is empty.
func Required() Rule {
	return Rule{kind: ruleRequired}
}

// LengthRange requires the value length in runes to be within [min, max].
func LengthRange(min, max int) Rule {
	return Rule{
		kind:    ruleLengthRange,
		min:     min,
		max:     max,
		message: fmt.Sprintf("must be between %d and %d characters", min, max),
	}
}

// Pattern requires the value to match the given regular expression.
// The message is what callers want rendered on failure.
func Pattern(re *regexp.Regexp, message string) Rule {
	return Rule{kind: rulePattern, re: re, message: message}
}

// Email requires the value to be a valid email address.
func Email() Rule {
	return Rule{kind: ruleEmail, message: "must be a valid email address"}
}

// URL requires the value to be a valid URL using one of the allowed schemes.
func URL(schemes ...string) Rule {
	return Rule{
		kind:    ruleURL,
		schemes: schemes,
		message: fmt.Sprintf("must be a valid URL (%s)", strings.Join(schemes, ", ")),
	}
}

// Integer requires an integer value within [min, max]. Only meaningful in
// Validator.CheckInt chains.
func Integer(min, max int) Rule {
	return Rule{
		kind:    ruleInteger,
		min:     min,
		max:     max,
		message: fmt.Sprintf("must be an integer between %d and %d", min, max),
	}
}

// OneOf requires the value to be one of the given choices.
func OneOf(choices ...string) Rule {
	return Rule{
		kind:    ruleOneOf,
		choices: choices,
		message: "must be one of: " + strings.Join(choices, ", "),
	}
}

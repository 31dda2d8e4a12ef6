// Package validate implements declarative per-field rule chains for
// request payloads. A chain is evaluated in declared order and every
// failing rule is reported, so API consumers can render a full error list.
package validate

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// vld backs the format predicates (email, url) so their acceptance rules
// match the rest of the ecosystem instead of hand-rolled regexes.
var vld = validator.New() //nolint:gochecknoglobals

// Violation is a single failed rule on a named field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the ordered list of all failed rules of a payload.
// It implements error so handlers can short-circuit on it.
type Violations []Violation

// Error implements the error interface.
func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	return fmt.Sprintf("validation failed: %s %s", v[0].Field, v[0].Message)
}

// Validator collects violations across the fields of one payload.
type Validator struct {
	violations Violations
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Check runs a rule chain against a string field and returns the value with
// declared transforms applied. Violations are collected on the Validator.
func (v *Validator) Check(field, value string, rules ...Rule) string {
	out, violations := applyString(field, value, rules)
	v.violations = append(v.violations, violations...)

	return out
}

// CheckInt runs a rule chain against an integer field.
func (v *Validator) CheckInt(field string, value int, rules ...Rule) int {
	for _, r := range rules {
		if r.kind != ruleInteger {
			continue
		}

		if value < r.min || value > r.max {
			v.violations = append(v.violations, Violation{Field: field, Message: r.message})
		}
	}

	return value
}

// CheckEach runs a rule chain against every element of a string slice,
// labelling violations with the element index.
func (v *Validator) CheckEach(field string, values []string, rules ...Rule) []string {
	if values == nil {
		return nil
	}

	out := make([]string, len(values))

	for i, value := range values {
		elemField := fmt.Sprintf("%s[%d]", field, i)

		elem, violations := applyString(elemField, value, rules)
		v.violations = append(v.violations, violations...)
		out[i] = elem
	}

	return out
}

// Err returns the collected violations, or nil if the payload passed.
func (v *Validator) Err() error {
	if len(v.violations) == 0 {
		return nil
	}

	return v.violations
}

func applyString(field, value string, rules []Rule) (string, Violations) {
	var violations Violations

	fail := func(message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	for _, r := range rules {
		switch r.kind {
		case ruleTrim:
			value = strings.TrimSpace(value)
		case ruleOptional:
			if value == "" {
				return value, violations
			}
		case ruleRequired:
			if value == "" {
				fail("is required")
			}
		case ruleLengthRange:
			if n := utf8.RuneCountInString(value); n < r.min || n > r.max {
				fail(r.message)
			}
		case rulePattern:
			if !r.re.MatchString(value) {
				fail(r.message)
			}
		case ruleEmail:
			if vld.Var(value, "email") != nil {
				fail(r.message)
			}
		case ruleURL:
			if !validURL(value, r.schemes) {
				fail(r.message)
			}
		case ruleOneOf:
			if !slices.Contains(r.choices, value) {
				fail(r.message)
			}
		case ruleInteger:
			// integer rules only apply to CheckInt chains
		}
	}

	return value, violations
}

func validURL(value string, schemes []string) bool {
	if vld.Var(value, "url") != nil {
		return false
	}

	u, err := url.Parse(value)
	if err != nil {
		return false
	}

	return len(schemes) == 0 || slices.Contains(schemes, u.Scheme)
}

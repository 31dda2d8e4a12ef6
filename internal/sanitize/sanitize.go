// Package sanitize neutralizes unsafe markup in free-text input.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy strips all HTML elements and attributes. Values cleaned with it
// are safe to render unescaped later.
var policy = bluemonday.StrictPolicy() //nolint:gochecknoglobals

// richPolicy keeps common formatting elements but still strips script,
// event handlers and javascript: URLs. Used for article bodies.
var richPolicy = bluemonday.UGCPolicy() //nolint:gochecknoglobals

// Clean trims the value and strips any markup capable of executing script:
// tags, attributes and protocol handlers like javascript: URLs. The strip
// runs to a fixpoint so nested entity escaping cannot smuggle markup past
// a single pass, and Clean(Clean(x)) == Clean(x).
func Clean(value string) string {
	cleaned := strings.TrimSpace(value)

	for {
		next := cleanPass(cleaned)
		if next == cleaned {
			return cleaned
		}

		cleaned = next
	}
}

// cleanPass strips one layer of markup and entity escaping. A pass that
// changes its input strictly shortens it, so the loop in Clean terminates.
func cleanPass(value string) string {
	cleaned := policy.Sanitize(value)

	// bluemonday entity-escapes what it keeps. Unescape so stored values
	// stay plain text, then drop any angle brackets the unescape brought
	// back.
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.NewReplacer("<", "", ">", "").Replace(cleaned)

	return strings.TrimSpace(cleaned)
}

// CleanRich trims the value and strips executable markup while keeping
// safe formatting elements. Like Clean it is idempotent.
func CleanRich(value string) string {
	return strings.TrimSpace(richPolicy.Sanitize(strings.TrimSpace(value)))
}

// CleanAll applies Clean to every element, preserving order.
func CleanAll(values []string) []string {
	if values == nil {
		return nil
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Clean(v)
	}

	return out
}

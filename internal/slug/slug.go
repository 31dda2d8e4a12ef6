// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrSlugConflict is returned when even the suffixed candidate slug is taken.
// The suffix source is time-varying, so this is treated as exceptional and
// surfaced instead of retried.
var ErrSlugConflict = errors.New("slug conflict could not be resolved")

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// now is swapped out in tests.
var now = time.Now //nolint:gochecknoglobals

// Make lower-cases the title, replaces every run of characters outside
// [a-z0-9] with a single hyphen and strips leading/trailing hyphens.
// The result is empty only if the title contained no alphanumerics.
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(slug string) (bool, error)

// Unique returns a slug for title that exists reports as free.
// On collision a base-36 timestamp suffix is appended once; a second
// collision returns ErrSlugConflict rather than looping.
func Unique(title string, exists ExistsFunc) (string, error) {
	candidate := Make(title)

	taken, err := exists(candidate)
	if err != nil {
		return "", err
	}

	if !taken {
		return candidate, nil
	}

	candidate = candidate + "-" + strconv.FormatInt(now().Unix(), 36)

	taken, err = exists(candidate)
	if err != nil {
		return "", err
	}

	if taken {
		return "", ErrSlugConflict
	}

	return candidate, nil
}

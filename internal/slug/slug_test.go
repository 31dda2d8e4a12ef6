package slug

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "typical title",
			title: "5 Benefits of Regular Chiropractic Care",
			want:  "5-benefits-of-regular-chiropractic-care",
		},
		{
			name:  "punctuation collapses to single hyphen",
			title: "Back Pain? Here's What Helps!",
			want:  "back-pain-here-s-what-helps",
		},
		{
			name:  "leading and trailing junk stripped",
			title: "  --Hello World--  ",
			want:  "hello-world",
		},
		{
			name:  "no alphanumerics yields empty",
			title: "???!!!",
			want:  "",
		},
		{
			name:  "already a slug",
			title: "already-a-slug",
			want:  "already-a-slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.title)
			assert.Equal(t, tt.want, got)

			if got != "" {
				assert.Regexp(t, slugShape, got)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	t.Run("no collision keeps base slug", func(t *testing.T) {
		got, err := Unique("My First Post", func(string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "my-first-post", got)
	})

	t.Run("collision appends base36 suffix", func(t *testing.T) {
		orig := now
		now = func() time.Time { return time.Unix(1700000000, 0) }

		defer func() { now = orig }()

		taken := map[string]bool{"my-first-post": true}

		got, err := Unique("My First Post", func(s string) (bool, error) {
			return taken[s], nil
		})
		require.NoError(t, err)
		assert.NotEqual(t, "my-first-post", got)
		assert.Regexp(t, slugShape, got)
	})

	t.Run("second collision surfaces conflict", func(t *testing.T) {
		_, err := Unique("My First Post", func(string) (bool, error) {
			return true, nil
		})
		require.ErrorIs(t, err, ErrSlugConflict)
	})

	t.Run("exists errors are passed through", func(t *testing.T) {
		boom := errors.New("db down")

		_, err := Unique("My First Post", func(string) (bool, error) {
			return false, boom
		})
		require.ErrorIs(t, err, boom)
	})
}

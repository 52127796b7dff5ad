package Normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDriverName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  John Doe ", "john doe"},
		{"Mr. John O'Doe", "john odoe"},
		{"DOE,   JOHN", "doe john"},
		{"Dr Jane Smith", "jane smith"},
		{"D.R. Jones", "jones"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDriverName(tc.in), "input %q", tc.in)
	}

	t.Run("idempotent", func(t *testing.T) {
		for _, tc := range cases {
			once := NormalizeDriverName(tc.in)
			assert.Equal(t, once, NormalizeDriverName(once), "input %q", tc.in)
		}
	})

	t.Run("punctuation removal cannot create a title token", func(t *testing.T) {
		// "d.r." must not collapse into a "dr" that a second pass strips.
		for _, in := range []string{"d.r. jones", "m.r. smith", "p.r.o.f. wong"} {
			once := NormalizeDriverName(in)
			assert.Equal(t, once, NormalizeDriverName(once), "input %q", in)
		}
	})
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("john doe", "doe john"))
	assert.Equal(t, 0, TokenSortRatio("", "john doe"))
	assert.Greater(t, TokenSortRatio("john doe", "jon doe"), 80)
	assert.Less(t, TokenSortRatio("john doe", "alice wong"), 50)
}

func TestClosestDriverMatch(t *testing.T) {
	roster := []string{"John Doe", "Jane Smith", "Alice Wong"}

	t.Run("exact normalized match wins", func(t *testing.T) {
		assert.Equal(t, "John Doe", ClosestDriverMatch("  JOHN DOE ", roster, DefaultMatchThreshold))
	})

	t.Run("token order does not matter", func(t *testing.T) {
		assert.Equal(t, "John Doe", ClosestDriverMatch("Doe, John", roster, DefaultMatchThreshold))
	})

	t.Run("misspelling within threshold", func(t *testing.T) {
		assert.Equal(t, "Jane Smith", ClosestDriverMatch("Jane Smyth", roster, DefaultMatchThreshold))
	})

	t.Run("below threshold means no match", func(t *testing.T) {
		assert.Equal(t, "", ClosestDriverMatch("Bob Unknown", roster, DefaultMatchThreshold))
	})

	t.Run("empty target never matches", func(t *testing.T) {
		assert.Equal(t, "", ClosestDriverMatch("   ", roster, DefaultMatchThreshold))
	})
}

package Normalizer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	titleRe    = regexp.MustCompile(`\b(mr|mrs|ms|dr|prof)\s+`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]+`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// NormalizeDriverName reduces a free-text driver/operator name to the merge
// key used across sources: lower-cased, punctuation removed, titles
// stripped, whitespace collapsed. Punctuation goes before title stripping so
// removing it cannot synthesize a fresh title token; that ordering is what
// keeps the function idempotent.
func NormalizeDriverName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = titleRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DefaultMatchThreshold is the minimum similarity score (0-100) for a fuzzy
// roster match. 80 trades a few missed matches for few false merges; it is a
// tuning knob, not a derived constant.
const DefaultMatchThreshold = 80

// ClosestDriverMatch unifies a name against a roster of candidates. An exact
// match on normalized names wins outright; otherwise the best candidate by
// token-sort similarity is returned when it clears the threshold. The empty
// string means no acceptable match.
func ClosestDriverMatch(target string, candidates []string, threshold int) string {
	normTarget := NormalizeDriverName(target)
	if normTarget == "" {
		return ""
	}

	for _, c := range candidates {
		if NormalizeDriverName(c) == normTarget {
			return c
		}
	}

	best := ""
	bestScore := 0
	for _, c := range candidates {
		score := TokenSortRatio(normTarget, NormalizeDriverName(c))
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore >= threshold {
		return best
	}
	return ""
}

// TokenSortRatio scores two strings 0-100 after sorting their tokens, so
// "doe john" and "john doe" compare equal. Edit-distance similarity on the
// sorted forms handles misspellings and middle initials.
func TokenSortRatio(a, b string) int {
	sa := sortTokens(a)
	sb := sortTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	score := strutil.Similarity(sa, sb, metrics.NewLevenshtein())
	return int(score*100 + 0.5)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

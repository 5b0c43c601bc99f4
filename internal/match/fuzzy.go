package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// lev is the shared Levenshtein metric behind every ratio helper.
// The metric itself is stateless apart from its cost settings, so a
// single instance is safe for concurrent use.
var lev = metrics.NewLevenshtein()

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Clean lowercases text and collapses every non-alphanumeric run into a
// single space. All ratio helpers clean their inputs, so punctuation
// and casing differences never count against similarity.
func Clean(text string) string {
	text = strings.ToLower(text)
	text = nonAlnum.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Ratio returns the normalized Levenshtein similarity of two cleaned
// strings, in [0,1]. Two empty strings are fully similar.
//
// Results are rounded to whole percents. Downstream thresholds (the
// 0.85 duplicate cutoff in particular) are calibrated against percent
// ratios, and raw float similarity makes threshold comparisons depend
// on accumulated floating-point noise.
func Ratio(a, b string) float64 {
	a, b = Clean(a), Clean(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return roundPercent(strutil.Similarity(a, b, lev))
}

// TokenSortRatio is Ratio applied after sorting the tokens of both
// strings, making it insensitive to word order:
// "pro iphone 16" and "iphone 16 pro" score 1.0.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the token intersection of both strings against
// each full token set and returns the best score. It is generous when
// one title is a decorated superset of the other ("iPhone 16 Pro" vs
// "iPhone 16 Pro 128GB Unlocked Renewed").
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1
	}

	var common, onlyA, onlyB []string
	for tok := range tokensA {
		if tokensB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	score := Ratio(full1, full2)
	if base != "" {
		if s := Ratio(base, full1); s > score {
			score = s
		}
		if s := Ratio(base, full2); s > score {
			score = s
		}
	}
	return score
}

// PartialRatio returns the best Ratio between the shorter string and
// any equal-length window of the longer one. It answers "does the
// shorter string appear, roughly, inside the longer one".
func PartialRatio(a, b string) float64 {
	a, b = Clean(a), Clean(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return roundPercent(strutil.Similarity(string(shorter), string(longer), lev))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if s := strutil.Similarity(string(shorter), window, lev); s > best {
			best = s
			if best == 1 {
				break
			}
		}
	}
	return roundPercent(best)
}

// roundPercent rounds a [0,1] similarity to whole percents.
func roundPercent(s float64) float64 {
	return math.Round(s*100) / 100
}

// sortTokens returns the cleaned tokens of text, sorted and rejoined.
func sortTokens(text string) string {
	tokens := strings.Fields(Clean(text))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSet returns the cleaned tokens of text as a set.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(Clean(text)) {
		set[tok] = true
	}
	return set
}

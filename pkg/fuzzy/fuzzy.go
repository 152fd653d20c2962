// Package fuzzy implements approximate text matching for history search.
// Inputs are lowercased and stripped of combining marks so Vietnamese text
// matches with or without diacritics.
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LevenshteinDistance is the number of single-character edits needed to turn
// s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	s1 = Normalize(s1)
	s2 = Normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Match reports whether query approximately matches text. threshold is the
// maximum edit distance allowed per word.
func Match(query, text string, threshold int) bool {
	query = Normalize(query)
	text = Normalize(text)
	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) {
			return true
		}
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// RelevanceScore ranks how well text matches query; higher is better.
func RelevanceScore(query, text string) float64 {
	query = Normalize(query)
	textNorm := Normalize(text)

	score := 0.0
	if strings.Contains(textNorm, query) {
		score += 100.0
		if containsWord(textNorm, query) {
			score += 50.0
		}
	}
	for _, word := range strings.Fields(textNorm) {
		dist := LevenshteinDistance(query, word)
		if dist <= 2 {
			score += 40.0 - float64(dist)*15.0
		}
	}
	return score
}

// Normalize lowercases and removes combining marks ("Xin chào" -> "xin chao").
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func containsWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if w == word {
			return true
		}
	}
	return false
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

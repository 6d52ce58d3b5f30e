package alignment

import (
	"math"
	"regexp"
	"strings"
)

// similarityFloor is the minimum score below which no match is reported.
const similarityFloor = 0.4

var fuzzyStripPattern = regexp.MustCompile(`[^a-z0-9 ,]+`)

// candidate holds one target string prepared for repeated scoring. The gram
// vector acts as a cheap pre-filter; the reported score is the edit-distance
// ratio against the normalized target.
type candidate struct {
	text  string
	norm  string
	grams map[string]float64
	gnorm float64
}

func newCandidate(text string) *candidate {
	norm := normalizeFuzzy(text)
	grams, gnorm := gramVector(norm)
	return &candidate{text: text, norm: norm, grams: grams, gnorm: gnorm}
}

// Match scores query against the candidate. Returns false when the two strings
// share no grams or the score falls below the similarity floor.
func (c *candidate) Match(query string) (float64, bool) {
	qnorm := normalizeFuzzy(query)
	if qnorm == "" || c.norm == "" {
		return 0, false
	}
	qgrams, qgnorm := gramVector(qnorm)
	if cosine(c.grams, c.gnorm, qgrams, qgnorm) == 0 {
		return 0, false
	}
	score := editRatio(qnorm, c.norm)
	if score < similarityFloor {
		return 0, false
	}
	return score, true
}

func normalizeFuzzy(s string) string {
	s = strings.ToLower(s)
	s = fuzzyStripPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// gramVector builds a padded-bigram frequency vector and its norm.
func gramVector(s string) (map[string]float64, float64) {
	if s == "" {
		return nil, 0
	}
	padded := "-" + s + "-"
	runes := []rune(padded)
	grams := make(map[string]float64, len(runes))
	for i := 0; i+2 <= len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	var norm float64
	for _, count := range grams {
		norm += count * count
	}
	return grams, math.Sqrt(norm)
}

func cosine(a map[string]float64, anorm float64, b map[string]float64, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a {
		if other, ok := b[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (anorm * bnorm)
}

// editRatio returns 1 - levenshtein(a,b)/max(len(a),len(b)).
func editRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1
	}
	max := la
	if lb > max {
		max = lb
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			m := ins
			if del < m {
				m = del
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return 1 - float64(prev[lb])/float64(max)
}

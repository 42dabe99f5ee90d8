// Package match maps free-text request fragments onto catalog entries with a
// character n-gram TF-IDF vector space and cosine similarity. The space is
// built once per catalog snapshot and is read-only afterwards, so a single
// Matcher is safe for concurrent use.
package match

import (
	"math"
	"sort"
	"strings"

	"github.com/rmaragno/sigilo/internal/catalog"
)

// Candidate is one ranked catalog hit for a request fragment
type Candidate struct {
	CatalogID string
	Name      string
	Score     float64
}

// Matcher ranks catalog entries by lexical similarity to a fragment
type Matcher struct {
	cat      *catalog.Catalog
	nMin     int
	nMax     int
	vocab    map[string]int // n-gram -> dimension
	idf      []float64
	entryVec []map[int]float64 // L2-normalized, one per catalog entry
}

// New builds the vector space over name+description+examples of every entry.
// nMin..nMax is the character n-gram range (word-bounded n-grams, so short
// inflection differences still overlap).
func New(cat *catalog.Catalog, nMin, nMax int) *Matcher {
	if nMin <= 0 {
		nMin = 3
	}
	if nMax < nMin {
		nMax = nMin + 2
	}

	m := &Matcher{
		cat:   cat,
		nMin:  nMin,
		nMax:  nMax,
		vocab: make(map[string]int),
	}

	entries := cat.Entries()
	counts := make([]map[int]float64, len(entries))
	df := []int{}

	for i, e := range entries {
		grams := m.ngrams(e.Text())
		vec := make(map[int]float64, len(grams))
		seen := make(map[int]bool, len(grams))
		for _, g := range grams {
			dim, ok := m.vocab[g]
			if !ok {
				dim = len(m.vocab)
				m.vocab[g] = dim
				df = append(df, 0)
			}
			vec[dim]++
			if !seen[dim] {
				seen[dim] = true
				df[dim]++
			}
		}
		counts[i] = vec
	}

	// Smoothed idf, as if one extra document contained every term
	n := float64(len(entries))
	m.idf = make([]float64, len(df))
	for dim, d := range df {
		m.idf[dim] = math.Log((1+n)/(1+float64(d))) + 1
	}

	m.entryVec = make([]map[int]float64, len(entries))
	for i, vec := range counts {
		for dim := range vec {
			vec[dim] *= m.idf[dim]
		}
		normalize(vec)
		m.entryVec[i] = vec
	}

	return m
}

// Match returns every entry scoring at or above threshold, descending by
// score; ties keep catalog declaration order.
func (m *Matcher) Match(fragment string, threshold float64) []Candidate {
	qv := m.vectorize(fragment)
	if len(qv) == 0 {
		return nil
	}

	entries := m.cat.Entries()
	var out []Candidate
	for i, ev := range m.entryVec {
		score := dot(qv, ev)
		if score >= threshold {
			out = append(out, Candidate{
				CatalogID: entries[i].ID,
				Name:      entries[i].Name,
				Score:     score,
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// Best returns the top candidate, if any clears the threshold
func (m *Matcher) Best(fragment string, threshold float64) (Candidate, bool) {
	ranked := m.Match(fragment, threshold)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}

// vectorize projects a fragment into the entry space; unseen n-grams drop out
func (m *Matcher) vectorize(text string) map[int]float64 {
	vec := make(map[int]float64)
	for _, g := range m.ngrams(text) {
		if dim, ok := m.vocab[g]; ok {
			vec[dim]++
		}
	}
	for dim := range vec {
		vec[dim] *= m.idf[dim]
	}
	normalize(vec)
	return vec
}

// ngrams produces word-bounded character n-grams: each word is padded with
// a space on both sides so grams never straddle word boundaries.
func (m *Matcher) ngrams(text string) []string {
	var grams []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		runes := []rune(" " + word + " ")
		for n := m.nMin; n <= m.nMax; n++ {
			if len(runes) < n {
				continue
			}
			for i := 0; i+n <= len(runes); i++ {
				grams = append(grams, string(runes[i:i+n]))
			}
		}
	}
	return grams
}

func normalize(vec map[int]float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for dim := range vec {
		vec[dim] /= norm
	}
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var s float64
	for dim, v := range a {
		s += v * b[dim]
	}
	return s
}

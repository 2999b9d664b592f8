package faq

import (
	"errors"
	"strings"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// DefaultThreshold is the largest accepted score: the edit distance of the
// query against the question, relative to the query length.
const DefaultThreshold = 0.3

// ErrInvalidThreshold is returned for a threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

type fuzzyEntry struct {
	entry    model.FAQEntry
	question []rune
}

// FuzzyMatcher answers with the canned answer whose question best matches
// the query. The corpus is fixed at construction.
type FuzzyMatcher struct {
	entries   []fuzzyEntry
	threshold float64
}

// NewFuzzyMatcher creates a matcher over entries.
func NewFuzzyMatcher(entries []model.FAQEntry, threshold float64) (*FuzzyMatcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	m := &FuzzyMatcher{
		entries:   make([]fuzzyEntry, len(entries)),
		threshold: threshold,
	}
	for i, e := range entries {
		m.entries[i] = fuzzyEntry{entry: e, question: []rune(normalize(e.Question))}
	}
	return m, nil
}

// Strategy implements Matcher.
func (m *FuzzyMatcher) Strategy() string { return StrategyFuzzy }

// Threshold returns the configured tolerance.
func (m *FuzzyMatcher) Threshold() float64 { return m.threshold }

// FindAnswer returns the answer text for query.
func (m *FuzzyMatcher) FindAnswer(query string) string {
	return m.Match(query).Text
}

// Match scores query against every question and returns the answer of the
// lowest score within the threshold. Equal scores keep corpus order.
func (m *FuzzyMatcher) Match(query string) Reply {
	if isBlank(query) {
		return promptReply()
	}

	pattern := []rune(normalize(query))
	best := -1
	bestScore := 0.0
	for i, e := range m.entries {
		score := float64(substringDistance(pattern, e.question)) / float64(len(pattern))
		if score > m.threshold {
			continue
		}
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return Reply{Text: FallbackText, Source: SourceFallback}
	}

	e := m.entries[best].entry
	return Reply{Text: e.Answer, Matched: true, Source: e.Question}
}

// normalize lower-cases s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

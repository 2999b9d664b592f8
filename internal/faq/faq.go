// Package faq answers storefront questions from compiled-in knowledge.
//
// Two strategies are provided behind the Matcher interface: a fuzzy matcher
// that looks up canned answers by approximate question text, and a keyword
// matcher that classifies a message into a knowledge-base topic.
package faq

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy names accepted by New.
const (
	StrategyFuzzy   = "fuzzy"
	StrategyKeyword = "keyword"
)

// Fixed replies.
const (
	PromptText   = "Please type a question."
	FallbackText = "Sorry, I don't have an answer to that question yet."
)

// Sources reported by replies that did not come from a corpus entry.
const (
	SourcePrompt   = "prompt"
	SourceFallback = "fallback"
)

// ErrUnknownStrategy is returned by New for an unsupported strategy name.
var ErrUnknownStrategy = errors.New("unknown answer strategy")

// Reply is the answer to one user message.
type Reply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
	// Matched is false for the empty-input prompt and the fallback answer.
	Matched bool `json:"matched"`
	// Source names what produced the reply: the matched question, the
	// knowledge-base topic, or one of the Source* constants.
	Source string `json:"source"`
}

// Matcher turns free text into a reply. Implementations are pure and safe
// for concurrent use; they never fail.
type Matcher interface {
	Match(query string) Reply
	Strategy() string
}

// New returns the matcher for strategy. The threshold only applies to the
// fuzzy strategy.
func New(strategy string, threshold float64) (Matcher, error) {
	switch strategy {
	case StrategyFuzzy:
		return NewFuzzyMatcher(DefaultEntries(), threshold)
	case StrategyKeyword:
		return NewKeywordMatcher(DefaultTopics()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Strategies lists the supported strategy names.
func Strategies() []string {
	return []string{StrategyFuzzy, StrategyKeyword}
}

func promptReply() Reply {
	return Reply{Text: PromptText, Source: SourcePrompt}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

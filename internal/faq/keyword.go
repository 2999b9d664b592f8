package faq

import "strings"

// Topic is a knowledge-base category recognised by keyword.
type Topic struct {
	Name        string
	Keywords    []string
	Response    string
	Suggestions []string
}

// matches reports whether the lower-cased message contains any keyword.
func (t Topic) matches(message string) bool {
	for _, kw := range t.Keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// KeywordMatcher classifies a message into the first topic with a keyword
// contained in it. Messages outside every topic fall through a short list of
// canned replies and finally a generic answer with follow-up prompts.
type KeywordMatcher struct {
	topics   []Topic
	cascade  []Topic
	fallback Reply
}

// NewKeywordMatcher creates a matcher over topics, tried in order.
func NewKeywordMatcher(topics []Topic) *KeywordMatcher {
	return &KeywordMatcher{
		topics:  cloneTopics(topics),
		cascade: fallbackTopics(),
		fallback: Reply{
			Text:        genericResponse,
			Suggestions: append([]string(nil), genericSuggestions...),
			Source:      SourceFallback,
		},
	}
}

// Strategy implements Matcher.
func (m *KeywordMatcher) Strategy() string { return StrategyKeyword }

// Match implements Matcher.
func (m *KeywordMatcher) Match(query string) Reply {
	if isBlank(query) {
		return promptReply()
	}

	message := strings.ToLower(query)
	for _, list := range [][]Topic{m.topics, m.cascade} {
		for _, t := range list {
			if t.matches(message) {
				return Reply{
					Text:        t.Response,
					Suggestions: append([]string(nil), t.Suggestions...),
					Matched:     true,
					Source:      t.Name,
				}
			}
		}
	}

	r := m.fallback
	r.Suggestions = append([]string(nil), r.Suggestions...)
	return r
}

func cloneTopics(topics []Topic) []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		t.Keywords = append([]string(nil), t.Keywords...)
		t.Suggestions = append([]string(nil), t.Suggestions...)
		out[i] = t
	}
	return out
}

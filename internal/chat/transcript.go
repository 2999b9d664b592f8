// Package chat keeps the conversation between a visitor and the storefront
// assistant.
package chat

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// DefaultMaxMessages bounds a transcript. The oldest turns are dropped first;
// the opening greeting goes with them.
const DefaultMaxMessages = 200

// ErrEmptyMessage is returned by Send for blank input. Nothing is recorded.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Turn is one exchange: the visitor message and the assistant reply.
type Turn struct {
	Question model.ChatMessage `json:"question"`
	Answer   model.ChatMessage `json:"answer"`
	Strategy string            `json:"strategy"`
	Matched  bool              `json:"matched"`
}

// Transcript is the message history of one visitor. It is safe for
// concurrent use.
type Transcript struct {
	mu          sync.Mutex
	messages    []model.ChatMessage
	maxMessages int
	now         func() time.Time
}

// NewTranscript creates a transcript opened with the greeting of strategy.
func NewTranscript(strategy string) *Transcript {
	t := &Transcript{
		maxMessages: DefaultMaxMessages,
		now:         time.Now,
	}
	t.messages = []model.ChatMessage{t.botMessage(faq.Greeting(strategy))}
	return t
}

// Send records text and the reply of matcher to it.
func (t *Transcript) Send(matcher faq.Matcher, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	reply := matcher.Match(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	turn := Turn{
		Question: model.ChatMessage{
			ID:        uuid.New().String(),
			From:      model.ChatFromUser,
			Text:      text,
			Timestamp: t.now(),
		},
		Answer:   t.botMessage(reply),
		Strategy: matcher.Strategy(),
		Matched:  reply.Matched,
	}
	t.messages = append(t.messages, turn.Question, turn.Answer)
	if extra := len(t.messages) - t.maxMessages; extra > 0 {
		t.messages = slices.Delete(t.messages, 0, extra)
	}
	return turn, nil
}

// Messages returns a copy of the history, oldest first.
func (t *Transcript) Messages() []model.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.ChatMessage, len(t.messages))
	for i, m := range t.messages {
		m.Suggestions = slices.Clone(m.Suggestions)
		out[i] = m
	}
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Reset drops the history and starts over with the reset greeting.
func (t *Transcript) Reset() model.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	greeting := t.botMessage(faq.ResetGreeting())
	t.messages = []model.ChatMessage{greeting}
	return greeting
}

func (t *Transcript) botMessage(r faq.Reply) model.ChatMessage {
	return model.ChatMessage{
		ID:          uuid.New().String(),
		From:        model.ChatFromBot,
		Text:        r.Text,
		Suggestions: slices.Clone(r.Suggestions),
		Timestamp:   t.now(),
	}
}

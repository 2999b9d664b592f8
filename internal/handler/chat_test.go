package handler

import (
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/chat"
	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()
	a, err := NewAssistant(faq.StrategyFuzzy, faq.DefaultThreshold)
	if err != nil {
		t.Fatalf("NewAssistant() error = %v", err)
	}
	return a
}

func TestNewAssistant_UnknownDefault(t *testing.T) {
	// Act
	_, err := NewAssistant("oracle", faq.DefaultThreshold)

	// Assert
	if !errors.Is(err, faq.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}

func TestNewAssistant_InvalidThreshold(t *testing.T) {
	// Act
	_, err := NewAssistant(faq.StrategyFuzzy, 2)

	// Assert
	if err == nil {
		t.Error("expected error for threshold above one")
	}
}

func TestChatHandler_Send(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStrategy string
		wantMatched  bool
	}{
		{"default strategy", `{"text":"What is the warranty period?"}`, faq.StrategyFuzzy, true},
		{"keyword override", `{"text":"How do I install it?","strategy":"keyword"}`, faq.StrategyKeyword, true},
		{"fuzzy fallback", `{"text":"zzzzzzzz"}`, faq.StrategyFuzzy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := newTestSession(t)
			h := apiRouter(NewChatHandler(newTestAssistant(t), zap.NewNop()), s)

			// Act
			rr := do(t, h, http.MethodPost, "/api/v1/chat", tt.body)

			// Assert
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			turn := decodeData[chat.Turn](t, rr)
			if turn.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", turn.Strategy, tt.wantStrategy)
			}
			if turn.Matched != tt.wantMatched {
				t.Errorf("matched = %v, want %v", turn.Matched, tt.wantMatched)
			}
			if turn.Answer.From != model.ChatFromBot || turn.Answer.Text == "" {
				t.Errorf("answer = %+v", turn.Answer)
			}
			if s.Chat.Len() != 3 {
				t.Errorf("transcript length = %d, want greeting plus one turn", s.Chat.Len())
			}
		})
	}
}

func TestChatHandler_SendErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank text", `{"text":"   "}`},
		{"unknown strategy", `{"text":"hi","strategy":"oracle"}`},
		{"bad json", `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := newTestSession(t)
			h := apiRouter(NewChatHandler(newTestAssistant(t), zap.NewNop()), s)

			// Act
			rr := do(t, h, http.MethodPost, "/api/v1/chat", tt.body)

			// Assert
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			if s.Chat.Len() != 1 {
				t.Errorf("transcript length = %d, want only the greeting", s.Chat.Len())
			}
		})
	}
}

func TestChatHandler_HistoryAndReset(t *testing.T) {
	// Arrange
	s := newTestSession(t)
	h := apiRouter(NewChatHandler(newTestAssistant(t), zap.NewNop()), s)
	do(t, h, http.MethodPost, "/api/v1/chat", `{"text":"Do you ship internationally?"}`)

	// Act
	history := decodeData[[]model.ChatMessage](t, do(t, h, http.MethodGet, "/api/v1/chat/history", ""))
	reset := decodeData[[]model.ChatMessage](t, do(t, h, http.MethodDelete, "/api/v1/chat/history", ""))

	// Assert
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[1].From != model.ChatFromUser || history[1].Text != "Do you ship internationally?" {
		t.Errorf("question = %+v", history[1])
	}
	if len(reset) != 1 || reset[0].Text != faq.ResetGreeting().Text {
		t.Errorf("reset = %+v", reset)
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/chat"
	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
	"github.com/vyrodovalexey/zuice-storefront/internal/metrics"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

// ChatRequest is a visitor message. Strategy overrides the default
// answering strategy for this message only.
type ChatRequest struct {
	Text     string `json:"text" validate:"max=1000"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=fuzzy keyword"`
}

// Validate checks the request fields.
func (r *ChatRequest) Validate() error {
	return model.Validate(r)
}

// Assistant answers visitor messages with one matcher per strategy.
type Assistant struct {
	matchers        map[string]faq.Matcher
	defaultStrategy string
}

// NewAssistant builds a matcher for every strategy. threshold applies to
// the fuzzy matcher.
func NewAssistant(defaultStrategy string, threshold float64) (*Assistant, error) {
	a := &Assistant{
		matchers:        make(map[string]faq.Matcher),
		defaultStrategy: defaultStrategy,
	}
	for _, strategy := range faq.Strategies() {
		m, err := faq.New(strategy, threshold)
		if err != nil {
			return nil, fmt.Errorf("building %s matcher: %w", strategy, err)
		}
		a.matchers[strategy] = m
	}
	if _, ok := a.matchers[defaultStrategy]; !ok {
		return nil, fmt.Errorf("%w: %q", faq.ErrUnknownStrategy, defaultStrategy)
	}
	return a, nil
}

// Ask records text in the transcript and answers it. An empty strategy
// selects the default.
func (a *Assistant) Ask(t *chat.Transcript, text, strategy string) (chat.Turn, error) {
	if strategy == "" {
		strategy = a.defaultStrategy
	}
	m, ok := a.matchers[strategy]
	if !ok {
		return chat.Turn{}, fmt.Errorf("%w: %q", faq.ErrUnknownStrategy, strategy)
	}

	turn, err := t.Send(m, text)
	if err != nil {
		return chat.Turn{}, err
	}
	metrics.ChatReply(turn.Strategy, turn.Matched)
	return turn, nil
}

// ChatHandler serves the storefront assistant.
type ChatHandler struct {
	responder
	assistant *Assistant
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant *Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		responder: responder{logger: logger},
		assistant: assistant,
	}
}

// RegisterRoutes registers the chat routes with the router.
func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat", h.Send).Methods(http.MethodPost)
	router.HandleFunc("/chat/history", h.History).Methods(http.MethodGet)
	router.HandleFunc("/chat/history", h.Reset).Methods(http.MethodDelete)
}

// Send handles POST /chat requests.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	turn, err := h.assistant.Ask(s.Chat, req.Text, req.Strategy)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, faq.ErrUnknownStrategy):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("chat failed", zap.String("session_id", s.ID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeOK(h.responder, w, turn)
}

// History handles GET /chat/history requests.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeOK(h.responder, w, s.Chat.Messages())
}

// Reset handles DELETE /chat/history requests and returns the fresh
// transcript.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Chat.Reset()
	writeOK(h.responder, w, s.Chat.Messages())
}

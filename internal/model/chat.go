package model

import "time"

// Chat participants.
const (
	ChatFromUser = "user"
	ChatFromBot  = "bot"
)

// ChatMessage is one turn of a conversation with the storefront assistant.
type ChatMessage struct {
	ID          string    `json:"id"`
	From        string    `json:"from"`
	Text        string    `json:"text"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// FAQEntry is a canned question and its answer.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

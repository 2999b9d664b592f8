package model

import (
	"encoding/json"
	"time"
)

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error API response.
func NewErrorResponse[T any](errMsg string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error:   errMsg,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WebSocketMessage represents a message exchanged over a WebSocket
// connection. Data carries the payload of state events and chat replies.
type WebSocketMessage struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Strategy  string          `json:"strategy,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// WebSocket message types.
const (
	WSMessageTypeCart      = "cart"
	WSMessageTypeUser      = "user"
	WSMessageTypeUI        = "ui"
	WSMessageTypeCatalog   = "catalog"
	WSMessageTypeChat      = "chat"
	WSMessageTypeChatReply = "chat_reply"
	WSMessageTypePing      = "ping"
	WSMessageTypePong      = "pong"
	WSMessageTypeError     = "error"
)

// NewEventMessage creates a WebSocket message carrying a JSON encoded
// payload of the given type.
func NewEventMessage(msgType string, payload any) (WebSocketMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return WebSocketMessage{}, err
	}
	return WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// NewErrorMessage creates a WebSocket error message.
func NewErrorMessage(text string) WebSocketMessage {
	return WebSocketMessage{
		Type:      WSMessageTypeError,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

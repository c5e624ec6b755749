package domain

import (
	"errors"
	"time"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is a thread with one professional. Threads are local-only:
// there is no transport behind them.
type Conversation struct {
	ID          string    `json:"id"`
	PeerID      string    `json:"peer_id"`
	PeerName    string    `json:"peer_name"`
	LastMessage string    `json:"last_message,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is a single entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Outgoing       bool      `json:"outgoing"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
}

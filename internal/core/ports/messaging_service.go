package ports

import "github.com/craftlink/marketplace-core/internal/core/domain"

// MessagingService is the local-only conversation surface. Sent messages are
// appended in memory and logged; no transport exists behind them.
type MessagingService interface {
	// Conversations returns all threads, most recently updated first.
	Conversations() []domain.Conversation
	Messages(conversationID string) ([]domain.Message, error)
	Send(conversationID, body string) (*domain.Message, error)
}

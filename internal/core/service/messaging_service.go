package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/craftlink/marketplace-core/internal/core/domain"
	"github.com/craftlink/marketplace-core/internal/core/ports"
)

// MessagingService holds local-only conversation threads, one per catalog
// professional. Sending appends in memory and logs the would-be delivery;
// there is no transport.
type MessagingService struct {
	mu            sync.Mutex
	conversations []domain.Conversation
	messages      map[string][]domain.Message
	log           zerolog.Logger
}

var _ ports.MessagingService = (*MessagingService)(nil)

// NewMessagingService seeds one empty thread per professional.
func NewMessagingService(professionals []domain.Professional, log zerolog.Logger) *MessagingService {
	s := &MessagingService{
		messages: make(map[string][]domain.Message),
		log:      log,
	}
	for _, p := range professionals {
		conv := domain.Conversation{
			ID:        uuid.NewString(),
			PeerID:    p.ID,
			PeerName:  p.Name,
			UpdatedAt: time.Now(),
		}
		s.conversations = append(s.conversations, conv)
		s.messages[conv.ID] = nil
	}
	return s
}

// Conversations returns all threads, most recently updated first.
func (s *MessagingService) Conversations() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (s *MessagingService) Messages(conversationID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, ok := s.messages[conversationID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Send appends an outgoing message to the thread and bumps it to the top of
// the conversation list.
func (s *MessagingService) Send(conversationID, body string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[conversationID]; !ok {
		return nil, domain.ErrConversationNotFound
	}

	msg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Outgoing:       true,
		Body:           body,
		SentAt:         time.Now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)

	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations[i].LastMessage = body
			s.conversations[i].UpdatedAt = msg.SentAt
			break
		}
	}

	// No transport behind this: the message stays local.
	s.log.Debug().Str("conversation_id", conversationID).Msg("message stored locally")
	return &msg, nil
}

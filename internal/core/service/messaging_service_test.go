package service

import (
	"errors"
	"testing"

	"github.com/craftlink/marketplace-core/internal/core/domain"
)

func seedProfessionals() []domain.Professional {
	return []domain.Professional{
		{ID: "pro_a", Name: "Karim"},
		{ID: "pro_b", Name: "Sofia"},
	}
}

func TestMessagingService_SeedsOneThreadPerProfessional(t *testing.T) {
	s := NewMessagingService(seedProfessionals(), discardLogger)

	convs := s.Conversations()
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	for _, c := range convs {
		if c.ID == "" || c.PeerName == "" {
			t.Errorf("conversation not seeded: %+v", c)
		}
	}
}

func TestMessagingService_Send_AppendsLocally(t *testing.T) {
	s := NewMessagingService(seedProfessionals(), discardLogger)
	conv := s.Conversations()[0]

	msg, err := s.Send(conv.ID, "hello, are you available this week?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" || !msg.Outgoing {
		t.Errorf("message malformed: %+v", msg)
	}

	msgs, err := s.Messages(conv.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "hello, are you available this week?" {
		t.Fatalf("expected 1 appended message, got %+v", msgs)
	}

	// The thread bubbles to the top with the latest body.
	top := s.Conversations()[0]
	if top.ID != conv.ID || top.LastMessage != msg.Body {
		t.Errorf("conversation not bumped: %+v", top)
	}
}

func TestMessagingService_UnknownConversation(t *testing.T) {
	s := NewMessagingService(seedProfessionals(), discardLogger)

	if _, err := s.Send("missing", "hi"); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("send: expected ErrConversationNotFound, got %v", err)
	}
	if _, err := s.Messages("missing"); !errors.Is(err, domain.ErrConversationNotFound) {
		t.Errorf("messages: expected ErrConversationNotFound, got %v", err)
	}
}

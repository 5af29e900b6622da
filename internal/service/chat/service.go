package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

var (
	ErrEmptyMessage        = errors.New("message text is required")
	ErrReplyPending        = errors.New("a reply is still pending")
	ErrConversationClosed  = errors.New("conversation closed")
	ErrSessionNotFound     = errors.New("session not found")
	ErrProfileNameRequired = errors.New("profile name is required")
)

type sessionEntry struct {
	session      chat.Session
	conversation *Conversation
}

// Service keeps the live conversations of every signed-in session in memory.
// Nothing survives a restart.
type Service struct {
	resolver reply.Resolver
	log      zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

// NewService creates a registry whose conversations answer through resolver.
func NewService(resolver reply.Resolver, log zerolog.Logger) *Service {
	return &Service{
		resolver: resolver,
		log:      log,
		sessions: make(map[string]sessionEntry),
	}
}

// CreateSession opens a conversation for profile, seeded with its greeting.
func (s *Service) CreateSession(_ context.Context, profile chat.Profile) (chat.Session, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.FarmID = strings.TrimSpace(profile.FarmID)
	if profile.Name == "" {
		return chat.Session{}, ErrProfileNameRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
	}
	conv := NewConversation(session.ID, profile, s.resolver, s.log)

	s.mu.Lock()
	s.sessions[session.ID] = sessionEntry{session: session, conversation: conv}
	s.mu.Unlock()

	s.log.Info().Str("session", session.ID).Str("farm", profile.FarmID).Msg("session created")
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return entry.session, nil
}

// Conversation returns the live conversation of a session.
func (s *Service) Conversation(_ context.Context, sessionID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.conversation, nil
}

// Submit forwards text to the session's conversation.
func (s *Service) Submit(ctx context.Context, sessionID, text string) error {
	conv, err := s.Conversation(ctx, sessionID)
	if err != nil {
		return err
	}
	return conv.Submit(ctx, text)
}

// LoadTranscript returns the messages of a session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	conv, err := s.Conversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Messages(), nil
}

// CloseSession tears a session down and forgets it.
func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	entry.conversation.Close()
	s.log.Info().Str("session", sessionID).Msg("session closed")
	return nil
}

// Shutdown closes every open conversation.
func (s *Service) Shutdown() {
	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[string]sessionEntry)
	s.mu.Unlock()

	for _, entry := range entries {
		entry.conversation.Close()
	}
}

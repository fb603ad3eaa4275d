// Package chat implements the turn pipeline: assemble conversation context
// from cache or store, call the completion provider, persist the exchange,
// and refresh the cache.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/ai"
	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/models"
)

const (
	historyLimit = 100
	// promptHistoryLimit caps the turns forwarded to the completion
	// provider, not what is cached or returned to clients.
	promptHistoryLimit = 10

	backgroundTimeout = 10 * time.Second
)

var ErrConversationNotFound = errors.New("chat: conversation not found")

// Store is the authoritative profile/history store, satisfied by
// *db.Postgres.
type Store interface {
	GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error)
	CreateMessage(ctx context.Context, conversationID, content string, messageType models.MessageType, metadata map[string]any) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Cache is the best-effort accelerator; misses are reported, failures are
// the implementation's problem and must look like misses.
type Cache interface {
	GetHistory(ctx context.Context, conversationID string) ([]ai.Message, bool)
	SetHistory(ctx context.Context, conversationID string, history []ai.Message)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, bool)
	SetProfile(ctx context.Context, userID string, profile *models.UserProfile)
}

type Service struct {
	store     Store
	cache     Cache
	completer ai.Completer
	logger    *zap.SugaredLogger

	pending sync.WaitGroup
}

func NewService(store Store, cache Cache, completer ai.Completer, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, cache: cache, completer: completer, logger: logger}
}

// Result is the caller-facing outcome of one completed turn.
type Result struct {
	MessageID      string
	ConversationID string
	Response       string
	UserType       models.UserType
	Metadata       map[string]any
}

// LoadHistory returns the conversation's prior turns, preferring the cache
// and falling back to the store. On a miss the derived sequence is written
// back to the cache before returning, so a later post-turn refresh always
// supersedes it. Store failures yield an empty history rather than an
// error.
func (s *Service) LoadHistory(ctx context.Context, conversationID string) []ai.Message {
	if history, ok := s.cache.GetHistory(ctx, conversationID); ok {
		return history
	}

	messages, err := s.store.ListMessages(ctx, conversationID, historyLimit)
	if err != nil {
		s.logger.Warnw("history load failed, continuing without context", "conversation_id", conversationID, "error", err)
		return nil
	}

	history := make([]ai.Message, 0, len(messages))
	for _, msg := range messages {
		role := ai.RoleUser
		if msg.MessageType == models.MessageTypeAssistant {
			role = ai.RoleAssistant
		}
		history = append(history, ai.Message{Role: role, Content: msg.Content})
	}

	// Inline, not in the background: the post-turn refresh runs detached,
	// and a detached write-back could land after it and shadow the new
	// turns until the TTL expires.
	if len(history) > 0 {
		s.cache.SetHistory(ctx, conversationID, history)
	}

	return history
}

// LoadProfile returns the user's profile or nil when absent, populating
// the cache after a store hit.
func (s *Service) LoadProfile(ctx context.Context, userID string) *models.UserProfile {
	if profile, ok := s.cache.GetProfile(ctx, userID); ok {
		return profile
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warnw("profile load failed, defaulting user type", "user_id", userID, "error", err)
		return nil
	}

	s.cache.SetProfile(ctx, userID, profile)
	return profile
}

// SimpleChat answers a single message with no persistence and no history.
// Provider failures degrade to the fixed fallback string.
func (s *Service) SimpleChat(ctx context.Context, message string, userType models.UserType) string {
	response, err := s.completer.Chat(ctx, buildPrompt(userType, nil, message))
	if err != nil {
		s.logger.Warnw("completion failed, returning fallback", "error", err)
		return ai.FallbackMessage
	}
	return response
}

// SendMessage runs the synchronous turn pipeline for an owned
// conversation: persist the user message, obtain a completion (degrading
// to the fallback string on provider failure), persist the assistant
// message, and refresh the history cache out of band.
func (s *Service) SendMessage(ctx context.Context, conversationID, userID, content string, messageType models.MessageType, metadata map[string]any) (*Result, error) {
	if _, err := s.resolveConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	userType := s.resolveUserType(ctx, userID)
	history := s.LoadHistory(ctx, conversationID)

	if _, err := s.store.CreateMessage(ctx, conversationID, content, messageType, metadata); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	response, err := s.completer.Chat(ctx, buildPrompt(userType, history, content))
	if err != nil {
		s.logger.Warnw("completion failed, returning fallback", "conversation_id", conversationID, "error", err)
		response = ai.FallbackMessage
	}

	assistantMeta := map[string]any{"user_type": string(userType)}
	assistantMsg, err := s.store.CreateMessage(ctx, conversationID, response, models.MessageTypeAssistant, assistantMeta)
	if err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	s.refreshHistory(conversationID, history, content, response)

	return &Result{
		MessageID:      assistantMsg.ID,
		ConversationID: conversationID,
		Response:       response,
		UserType:       userType,
		Metadata:       assistantMsg.Metadata,
	}, nil
}

// Stream is one in-flight streaming turn. The caller forwards Chunks in
// order, then checks Errs, and calls Finish only after the fragment
// sequence completed cleanly; abandoning the stream persists nothing.
type Stream struct {
	Chunks <-chan string
	Errs   <-chan error

	svc            *Service
	conversationID string
	content        string
	userType       models.UserType
	history        []ai.Message
}

// StreamMessage resolves the turn context and opens a streaming
// completion for an owned conversation.
func (s *Service) StreamMessage(ctx context.Context, conversationID, userID, content string) (*Stream, error) {
	if _, err := s.resolveConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	userType := s.resolveUserType(ctx, userID)
	history := s.LoadHistory(ctx, conversationID)

	chunks, errs := s.completer.ChatStream(ctx, buildPrompt(userType, history, content))

	return &Stream{
		Chunks:         chunks,
		Errs:           errs,
		svc:            s,
		conversationID: conversationID,
		content:        content,
		userType:       userType,
		history:        history,
	}, nil
}

func (st *Stream) UserType() models.UserType { return st.userType }

// Finish persists the inbound message and the concatenated response as two
// new records, then refreshes the history cache out of band.
func (st *Stream) Finish(ctx context.Context, fullResponse string) error {
	if _, err := st.svc.store.CreateMessage(ctx, st.conversationID, st.content, models.MessageTypeUser, nil); err != nil {
		return fmt.Errorf("persist user message: %w", err)
	}

	meta := map[string]any{"user_type": string(st.userType)}
	if _, err := st.svc.store.CreateMessage(ctx, st.conversationID, fullResponse, models.MessageTypeAssistant, meta); err != nil {
		return fmt.Errorf("persist assistant message: %w", err)
	}

	st.svc.refreshHistory(st.conversationID, st.history, st.content, fullResponse)
	return nil
}

// WaitBackground blocks until in-flight cache refreshes finish. Used by
// graceful shutdown and tests; requests never wait on it.
func (s *Service) WaitBackground() {
	s.pending.Wait()
}

func (s *Service) resolveConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) resolveUserType(ctx context.Context, userID string) models.UserType {
	profile := s.LoadProfile(ctx, userID)
	if profile == nil {
		return models.UserTypeStudent
	}
	return models.ParseUserType(string(profile.UserType))
}

// refreshHistory schedules the post-turn cache refresh: prior history plus
// the two new turns. Exactly one refresh per successful turn, never
// blocking the response.
func (s *Service) refreshHistory(conversationID string, history []ai.Message, userContent, assistantContent string) {
	updated := make([]ai.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		ai.Message{Role: ai.RoleUser, Content: userContent},
		ai.Message{Role: ai.RoleAssistant, Content: assistantContent},
	)

	s.background(func(ctx context.Context) {
		s.cache.SetHistory(ctx, conversationID, updated)
	})
}

// background runs fn detached from the request with its own deadline; a
// panic is logged, never rethrown into a request.
func (s *Service) background(fn func(ctx context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorw("background task panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func buildPrompt(userType models.UserType, history []ai.Message, userMessage string) []ai.Message {
	if len(history) > promptHistoryLimit {
		history = history[len(history)-promptHistoryLimit:]
	}

	prompt := make([]ai.Message, 0, len(history)+2)
	prompt = append(prompt, ai.Message{Role: ai.RoleSystem, Content: ai.SystemPrompt(userType)})
	prompt = append(prompt, history...)
	prompt = append(prompt, ai.Message{Role: ai.RoleUser, Content: userMessage})
	return prompt
}

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/ai"
	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/models"
)

type stubStore struct {
	conversation *models.Conversation
	messages     []models.Message
	profile      *models.UserProfile
	listErr      error

	mu      sync.Mutex
	created []models.Message
}

func (s *stubStore) GetConversation(_ context.Context, conversationID, userID string) (*models.Conversation, error) {
	if s.conversation == nil || s.conversation.ID != conversationID || s.conversation.UserID != userID {
		return nil, db.ErrNotFound
	}
	return s.conversation, nil
}

func (s *stubStore) CreateMessage(_ context.Context, conversationID, content string, messageType models.MessageType, metadata map[string]any) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := models.Message{
		ID:             "msg-" + content,
		ConversationID: conversationID,
		Content:        content,
		MessageType:    messageType,
		Metadata:       metadata,
	}
	s.created = append(s.created, msg)
	return &msg, nil
}

func (s *stubStore) ListMessages(_ context.Context, _ string, _ int) ([]models.Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.messages, nil
}

func (s *stubStore) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	if s.profile == nil {
		return nil, db.ErrNotFound
	}
	return s.profile, nil
}

type stubCache struct {
	beforeSetHistory func(history []ai.Message)

	mu        sync.Mutex
	histories map[string][]ai.Message
	profiles  map[string]*models.UserProfile
}

func newStubCache() *stubCache {
	return &stubCache{
		histories: make(map[string][]ai.Message),
		profiles:  make(map[string]*models.UserProfile),
	}
}

func (c *stubCache) GetHistory(_ context.Context, conversationID string) ([]ai.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	history, ok := c.histories[conversationID]
	return history, ok
}

func (c *stubCache) SetHistory(_ context.Context, conversationID string, history []ai.Message) {
	if c.beforeSetHistory != nil {
		c.beforeSetHistory(history)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.histories[conversationID] = history
}

func (c *stubCache) GetProfile(_ context.Context, userID string) (*models.UserProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile, ok := c.profiles[userID]
	return profile, ok
}

func (c *stubCache) SetProfile(_ context.Context, userID string, profile *models.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[userID] = profile
}

type recordingCompleter struct {
	reply string
	err   error

	mu     sync.Mutex
	prompt []ai.Message
}

func (r *recordingCompleter) Chat(_ context.Context, messages []ai.Message) (string, error) {
	r.mu.Lock()
	r.prompt = messages
	r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func (r *recordingCompleter) ChatStream(_ context.Context, messages []ai.Message) (<-chan string, <-chan error) {
	r.mu.Lock()
	r.prompt = messages
	r.mu.Unlock()
	contentCh := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(contentCh)
		defer close(errCh)
		if r.err != nil {
			errCh <- r.err
			return
		}
		contentCh <- r.reply
	}()
	return contentCh, errCh
}

func (r *recordingCompleter) Offline() bool { return false }
func (r *recordingCompleter) Model() string { return "stub" }

func newTestService(store *stubStore, cache *stubCache, completer ai.Completer) *Service {
	return NewService(store, cache, completer, zap.NewNop().Sugar())
}

func TestLoadHistoryPrefersCache(t *testing.T) {
	store := &stubStore{listErr: errors.New("store must not be hit")}
	cache := newStubCache()
	cache.SetHistory(context.Background(), "conv-1", []ai.Message{
		{Role: ai.RoleUser, Content: "cached"},
	})

	svc := newTestService(store, cache, &recordingCompleter{})
	history := svc.LoadHistory(context.Background(), "conv-1")
	if len(history) != 1 || history[0].Content != "cached" {
		t.Fatalf("expected cached history verbatim, got %v", history)
	}
}

func TestLoadHistoryFallsBackToStoreAndWritesBack(t *testing.T) {
	store := &stubStore{messages: []models.Message{
		{Content: "question", MessageType: models.MessageTypeUser},
		{Content: "answer", MessageType: models.MessageTypeAssistant},
	}}
	cache := newStubCache()

	svc := newTestService(store, cache, &recordingCompleter{})
	history := svc.LoadHistory(context.Background(), "conv-1")
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != ai.RoleUser || history[1].Role != ai.RoleAssistant {
		t.Fatalf("role mapping wrong: %v", history)
	}

	svc.WaitBackground()
	cached, ok := cache.GetHistory(context.Background(), "conv-1")
	if !ok || len(cached) != 2 {
		t.Fatalf("expected derived history written back to cache, got %v", cached)
	}
}

func TestLoadHistoryStoreFailureYieldsEmpty(t *testing.T) {
	store := &stubStore{listErr: errors.New("pg down")}
	svc := newTestService(store, newStubCache(), &recordingCompleter{})

	if history := svc.LoadHistory(context.Background(), "conv-1"); len(history) != 0 {
		t.Fatalf("store failure must yield empty history, got %v", history)
	}
}

func TestSendMessageBuildsPromptWithPersona(t *testing.T) {
	store := &stubStore{
		conversation: &models.Conversation{ID: "conv-1", UserID: "user-1"},
		profile:      &models.UserProfile{UserID: "user-1", UserType: models.UserTypeEntrepreneur},
	}
	completer := &recordingCompleter{reply: "Raise seed funding carefully."}
	svc := newTestService(store, newStubCache(), completer)

	result, err := svc.SendMessage(context.Background(), "conv-1", "user-1", "How do I fund my startup?", models.MessageTypeUser, nil)
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if result.UserType != models.UserTypeEntrepreneur {
		t.Fatalf("expected entrepreneur persona, got %s", result.UserType)
	}

	completer.mu.Lock()
	prompt := completer.prompt
	completer.mu.Unlock()
	if len(prompt) != 2 {
		t.Fatalf("expected system + user message, got %d", len(prompt))
	}
	if prompt[0].Role != ai.RoleSystem || prompt[0].Content != ai.SystemPrompt(models.UserTypeEntrepreneur) {
		t.Fatalf("system prompt must match the persona")
	}
	if prompt[1].Content != "How do I fund my startup?" {
		t.Fatalf("user message missing from prompt: %v", prompt[1])
	}
}

func TestSendMessageCapsPromptHistory(t *testing.T) {
	messages := make([]models.Message, 0, 30)
	for i := 0; i < 30; i++ {
		messages = append(messages, models.Message{Content: "turn", MessageType: models.MessageTypeUser})
	}
	store := &stubStore{
		conversation: &models.Conversation{ID: "conv-1", UserID: "user-1"},
		messages:     messages,
	}
	completer := &recordingCompleter{reply: "ok"}
	svc := newTestService(store, newStubCache(), completer)

	if _, err := svc.SendMessage(context.Background(), "conv-1", "user-1", "latest", models.MessageTypeUser, nil); err != nil {
		t.Fatalf("send message: %v", err)
	}

	completer.mu.Lock()
	prompt := completer.prompt
	completer.mu.Unlock()
	// system + capped history + new user message
	if len(prompt) != 12 {
		t.Fatalf("expected prompt capped at 12 messages, got %d", len(prompt))
	}
}

// A slow write-back of the pre-turn history must never overwrite the
// post-turn refresh: after the refresh completes, the cache holds the new
// turns no matter how the two writes were scheduled.
func TestSendMessageRefreshSupersedesMissWriteBack(t *testing.T) {
	store := &stubStore{
		conversation: &models.Conversation{ID: "conv-1", UserID: "user-1"},
		messages: []models.Message{
			{Content: "earlier question", MessageType: models.MessageTypeUser},
		},
	}
	cache := newStubCache()
	cache.beforeSetHistory = func(history []ai.Message) {
		// Stall the 1-turn pre-turn write, not the 3-turn refresh.
		if len(history) == 1 {
			time.Sleep(50 * time.Millisecond)
		}
	}
	svc := newTestService(store, cache, &recordingCompleter{reply: "an answer"})

	if _, err := svc.SendMessage(context.Background(), "conv-1", "user-1", "a question", models.MessageTypeUser, nil); err != nil {
		t.Fatalf("send message: %v", err)
	}
	svc.WaitBackground()

	history, ok := cache.GetHistory(context.Background(), "conv-1")
	if !ok || len(history) != 3 {
		t.Fatalf("cache must hold the full history after the refresh, got %d turns", len(history))
	}
	if history[2].Role != ai.RoleAssistant || history[2].Content != "an answer" {
		t.Fatalf("refresh must include the new assistant turn, got %v", history[2])
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	svc := newTestService(&stubStore{}, newStubCache(), &recordingCompleter{reply: "ok"})

	if _, err := svc.SendMessage(context.Background(), "missing", "user-1", "hi", models.MessageTypeUser, nil); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestSendMessageFallbackOnCompletionError(t *testing.T) {
	store := &stubStore{conversation: &models.Conversation{ID: "conv-1", UserID: "user-1"}}
	svc := newTestService(store, newStubCache(), &recordingCompleter{err: errors.New("upstream")})

	result, err := svc.SendMessage(context.Background(), "conv-1", "user-1", "hi", models.MessageTypeUser, nil)
	if err != nil {
		t.Fatalf("completion failure must degrade, not error: %v", err)
	}
	if result.Response != ai.FallbackMessage {
		t.Fatalf("expected fallback response, got %q", result.Response)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.created) != 2 || store.created[1].Content != ai.FallbackMessage {
		t.Fatalf("expected fallback persisted as the assistant turn, got %v", store.created)
	}
}

func TestStreamFinishPersistsAndRefreshes(t *testing.T) {
	store := &stubStore{conversation: &models.Conversation{ID: "conv-1", UserID: "user-1"}}
	cache := newStubCache()
	svc := newTestService(store, cache, &recordingCompleter{reply: "streamed"})

	stream, err := svc.StreamMessage(context.Background(), "conv-1", "user-1", "hi")
	if err != nil {
		t.Fatalf("stream message: %v", err)
	}

	var full string
	for chunk := range stream.Chunks {
		full += chunk
	}
	if err := <-stream.Errs; err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if err := stream.Finish(context.Background(), full); err != nil {
		t.Fatalf("finish: %v", err)
	}

	store.mu.Lock()
	created := append([]models.Message(nil), store.created...)
	store.mu.Unlock()
	if len(created) != 2 {
		t.Fatalf("expected user and assistant persisted, got %d", len(created))
	}
	if created[0].MessageType != models.MessageTypeUser || created[1].Content != "streamed" {
		t.Fatalf("unexpected persisted turns: %v", created)
	}

	svc.WaitBackground()
	history, ok := cache.GetHistory(context.Background(), "conv-1")
	if !ok || len(history) != 2 {
		t.Fatalf("expected refreshed history cache, got %v", history)
	}
}

func TestLoadProfileCachesStoreHit(t *testing.T) {
	store := &stubStore{profile: &models.UserProfile{UserID: "user-1", UserType: models.UserTypeGraduate}}
	cache := newStubCache()
	svc := newTestService(store, cache, &recordingCompleter{})

	profile := svc.LoadProfile(context.Background(), "user-1")
	if profile == nil || profile.UserType != models.UserTypeGraduate {
		t.Fatalf("expected stored profile, got %v", profile)
	}
	if _, ok := cache.GetProfile(context.Background(), "user-1"); !ok {
		t.Fatalf("store hit must populate the cache")
	}
}

func TestLoadProfileAbsent(t *testing.T) {
	svc := newTestService(&stubStore{}, newStubCache(), &recordingCompleter{})
	if profile := svc.LoadProfile(context.Background(), "user-1"); profile != nil {
		t.Fatalf("expected nil for absent profile, got %v", profile)
	}
}

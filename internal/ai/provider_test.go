package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/utils"
)

const completionBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "career tip"}, "finish_reason": "stop"}]
}`

func newTestProvider(baseURL string, timeout time.Duration) *Provider {
	return NewProvider(utils.GroqConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "test-model",
		MaxRetries: 1,
		Timeout:    timeout,
	}, zap.NewNop().Sugar())
}

func TestProviderChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL+"/v1", 5*time.Second)

	response, err := provider.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if response != "career tip" {
		t.Fatalf("unexpected completion %q", response)
	}
}

func TestProviderChatHonorsRequestTimeout(t *testing.T) {
	started := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	provider := newTestProvider(srv.URL+"/v1", 50*time.Millisecond)

	begin := time.Now()
	_, err := provider.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected a timeout error")
	}
	if elapsed := time.Since(begin); elapsed > time.Second {
		t.Fatalf("request was not bounded by the configured timeout, took %s", elapsed)
	}
	<-started
}

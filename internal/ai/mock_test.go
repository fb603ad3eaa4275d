package ai

import (
	"context"
	"strings"
	"testing"
)

func userTurn(content string) []Message {
	return []Message{
		{Role: RoleSystem, Content: "system"},
		{Role: RoleUser, Content: content},
	}
}

func TestMockCompleterKeywordRouting(t *testing.T) {
	mock := NewMockCompleter()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"career change", "I'm thinking about a career change into tech", "career transitions"},
		{"career choice", "What career should I pursue?", "career paths"},
		{"resume", "Can you review my resume?", "resume"},
		{"interview", "I have an interview next week", "Interview preparation"},
		{"generic", "Tell me something nice", "CareerWise"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			response, err := mock.Chat(context.Background(), userTurn(tc.message))
			if err != nil {
				t.Fatalf("mock must never fail: %v", err)
			}
			if !strings.Contains(response, tc.want) {
				t.Fatalf("expected response to mention %q, got %q", tc.want, response)
			}
		})
	}
}

func TestMockCompleterStreamMatchesChat(t *testing.T) {
	mock := NewMockCompleter()
	messages := userTurn("help with my resume please")

	full, err := mock.Chat(context.Background(), messages)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	chunks, errs := mock.ChatStream(context.Background(), messages)
	var streamed strings.Builder
	count := 0
	for chunk := range chunks {
		streamed.WriteString(chunk)
		count++
	}
	if err := <-errs; err != nil {
		t.Fatalf("mock stream must never fail: %v", err)
	}

	if streamed.String() != full {
		t.Fatalf("streamed concatenation must equal the blocking response")
	}
	if count < 2 {
		t.Fatalf("expected the canned response split into multiple chunks, got %d", count)
	}
}

func TestMockCompleterIsOffline(t *testing.T) {
	mock := NewMockCompleter()
	if !mock.Offline() {
		t.Fatalf("mock completer must report offline")
	}
	if mock.Model() != "mock" {
		t.Fatalf("unexpected model name %q", mock.Model())
	}
}

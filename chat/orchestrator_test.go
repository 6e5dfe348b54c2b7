package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/GabbasovDinar/TelegramBot/llm"
)

type stubClient struct {
	reply string
	err   error
	last  llm.Request
}

func (c *stubClient) Chat(_ context.Context, req llm.Request) (llm.Result, error) {
	c.last = req
	if c.err != nil {
		return llm.Result{}, c.err
	}
	return llm.Result{Text: c.reply}, nil
}

func TestHandleMessageHappyPath(t *testing.T) {
	store := NewStore(testPrompt, 0)
	client := &stubClient{reply: "  Hi there \n"}
	o := NewOrchestrator(store, client, OrchestratorConfig{Model: "gpt-3.5-turbo", Temperature: 0.8, MaxTokens: 150})

	reply, err := o.HandleMessage(context.Background(), "42", "Hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Hi there" {
		t.Fatalf("HandleMessage() reply = %q, want %q", reply, "Hi there")
	}

	got := store.Snapshot("42")
	want := []llm.Message{
		{Role: llm.RoleSystem, Content: testPrompt},
		{Role: llm.RoleUser, Content: "Hello"},
		{Role: llm.RoleAssistant, Content: "Hi there"},
	}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("turn %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHandleMessageSendsFullContextAndSamplingParams(t *testing.T) {
	store := NewStore(testPrompt, 0)
	client := &stubClient{reply: "ok"}
	o := NewOrchestrator(store, client, OrchestratorConfig{Model: "gpt-3.5-turbo", Temperature: 0.8, MaxTokens: 150})

	if _, err := o.HandleMessage(context.Background(), "42", "first"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if _, err := o.HandleMessage(context.Background(), "42", "second"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	req := client.last
	if len(req.Messages) != 4 {
		t.Fatalf("request messages = %d, want 4 (system, user, assistant, user)", len(req.Messages))
	}
	if req.Model != "gpt-3.5-turbo" || req.Temperature != 0.8 || req.MaxTokens != 150 {
		t.Fatalf("sampling params = %+v", req)
	}
	if len(req.Stop) != 2 || req.Stop[0] != llm.RoleAssistant || req.Stop[1] != llm.RoleUser {
		t.Fatalf("stop sequences = %v", req.Stop)
	}
}

func TestHandleMessageBackendFailureKeepsUserTurn(t *testing.T) {
	store := NewStore(testPrompt, 0)
	client := &stubClient{err: fmt.Errorf("%w: openai http 500", llm.ErrBackendUnavailable)}
	o := NewOrchestrator(store, client, OrchestratorConfig{Model: "gpt-3.5-turbo"})

	_, err := o.HandleMessage(context.Background(), "42", "Hello")
	if !errors.Is(err, llm.ErrBackendUnavailable) {
		t.Fatalf("HandleMessage() error = %v, want ErrBackendUnavailable", err)
	}

	got := store.Snapshot("42")
	if len(got) != 2 {
		t.Fatalf("Snapshot() len = %d, want 2 (system + retained user turn)", len(got))
	}
	if got[1].Role != llm.RoleUser || got[1].Content != "Hello" {
		t.Fatalf("retained turn = %+v, want user Hello", got[1])
	}
}

func TestHandleMessageWrapsUnknownErrors(t *testing.T) {
	store := NewStore(testPrompt, 0)
	client := &stubClient{err: errors.New("connection refused")}
	o := NewOrchestrator(store, client, OrchestratorConfig{Model: "gpt-3.5-turbo"})

	_, err := o.HandleMessage(context.Background(), "42", "Hello")
	if !errors.Is(err, llm.ErrBackendUnavailable) {
		t.Fatalf("HandleMessage() error = %v, want ErrBackendUnavailable", err)
	}
}

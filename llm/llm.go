package llm

import (
	"context"
	"errors"
	"time"
)

// Roles used in chat messages. The stop sequences sent to the backend reuse
// these literals so the model cannot fabricate both sides of the dialogue in
// a single response.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrBackendUnavailable marks completion failures: transport errors,
	// non-2xx responses, malformed bodies, timeouts.
	ErrBackendUnavailable = errors.New("llm backend unavailable")
	// ErrTranscriptionFailed marks voice-to-text failures.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Result struct {
	Text     string
	Usage    Usage
	Duration time.Duration
}

type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	Stop        []string
}

type Client interface {
	Chat(ctx context.Context, req Request) (Result, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

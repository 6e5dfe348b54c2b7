package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GabbasovDinar/TelegramBot/llm"
)

// stopSequences prevent the model from continuing the dialogue past its own
// reply by emitting the role labels themselves.
var stopSequences = []string{llm.RoleAssistant, llm.RoleUser}

type OrchestratorConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Orchestrator runs one synchronous completion per inbound message against
// the identity's full conversation context.
type Orchestrator struct {
	store  *Store
	client llm.Client
	cfg    OrchestratorConfig
}

func NewOrchestrator(store *Store, client llm.Client, cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{store: store, client: client, cfg: cfg}
}

// HandleMessage appends the user's turn, sends the full history to the
// backend, appends the trimmed reply and returns it.
//
// On backend failure the user turn is kept (not rolled back) so it stays in
// context for the next attempt, no assistant turn is appended, and the error
// wraps llm.ErrBackendUnavailable. Retrying is the caller's decision.
func (o *Orchestrator) HandleMessage(ctx context.Context, identity, text string) (string, error) {
	o.store.Append(identity, llm.RoleUser, text)

	res, err := o.client.Chat(ctx, llm.Request{
		Model:       o.cfg.Model,
		Messages:    o.store.Snapshot(identity),
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
		Stop:        stopSequences,
	})
	if err != nil {
		if errors.Is(err, llm.ErrBackendUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", llm.ErrBackendUnavailable, err)
	}

	reply := strings.TrimSpace(res.Text)
	o.store.Append(identity, llm.RoleAssistant, reply)
	return reply, nil
}

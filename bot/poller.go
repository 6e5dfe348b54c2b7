package bot

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
)

// DispatchFunc receives every classified inbound event. The main bot routes
// through a Dispatcher; the admin bot handles events inline.
type DispatchFunc func(chatID int64, identity string, ev telegram.Event)

type Poller struct {
	api         *telegram.Client
	logger      *slog.Logger
	pollTimeout time.Duration
	dispatch    DispatchFunc
}

func NewPoller(api *telegram.Client, logger *slog.Logger, pollTimeout time.Duration, dispatch DispatchFunc) *Poller {
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Poller{
		api:         api,
		logger:      logger,
		pollTimeout: pollTimeout,
		dispatch:    dispatch,
	}
}

// Run long-polls getUpdates until the context is canceled. Poll errors are
// logged and retried after a short sleep; they never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, next, err := p.api.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn("telegram_get_updates_error", "error", err.Error())
			time.Sleep(1 * time.Second)
			continue
		}
		offset = next

		for _, u := range updates {
			msg := u.Inbound()
			if msg == nil || msg.Chat == nil {
				continue
			}
			ev := telegram.ClassifyMessage(msg)
			if ev.Kind == telegram.EventNone {
				continue
			}
			p.dispatch(msg.Chat.ID, identityFromMessage(msg), ev)
		}
	}
}

// identityFromMessage keys the sender: the user id when present, otherwise
// the chat id (channel posts carry no sender).
func identityFromMessage(msg *telegram.Message) string {
	if msg.From != nil && msg.From.ID != 0 {
		return strconv.FormatInt(msg.From.ID, 10)
	}
	return strconv.FormatInt(msg.Chat.ID, 10)
}

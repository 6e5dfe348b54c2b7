// Package bot adapts Telegram updates to the access gate and the
// conversation orchestrator. Events are dispatched through an explicit
// command table; per-chat workers keep processing strictly serial per
// identity.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/GabbasovDinar/TelegramBot/chat"
	"github.com/GabbasovDinar/TelegramBot/guard"
	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
	"github.com/GabbasovDinar/TelegramBot/llm"
)

// User-facing replies, kept close to the original bot's wording.
const (
	replyNoAccess = "You don't have access. Check the instructions on how to activate the bot with the /help command."
	replyHelp     = "Available commands:\n\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/password <password> - Check if the user has access to the bot\n" +
		"/reset_context - Reset the conversation context with the assistant"
	replyMissingPassword  = "Not found password."
	replyCorrectPassword  = "Correct password entered, now you can communicate with the bot!"
	replyWrongPassword    = "Wrong password entered, please try again."
	replyContextReset     = "The context has been successfully reset. You can start a new dialog with the bot."
	replyBackendDown      = "The assistant is temporarily unavailable, please resend your message later."
	replyTranscribeFailed = "Could not transcribe the audio message, please try again."
	replyUnknownCommand   = "Unknown command."

	audioPlaceholder = "[Audio message]"
)

// MessageLog is the durable append-only record of raw message traffic,
// independent of the in-memory conversation context.
type MessageLog interface {
	RecordMessage(ctx context.Context, identity, text string, isBot bool) error
}

type Config struct {
	TaskTimeout       time.Duration // budget for one completion round trip
	TranscribeTimeout time.Duration
}

type commandFunc func(ctx context.Context, chatID int64, identity, args string)

type Handler struct {
	api         *telegram.Client
	gate        *guard.Service
	history     *chat.Store
	orch        *chat.Orchestrator
	transcriber llm.Transcriber
	log         MessageLog
	logger      *slog.Logger
	cfg         Config
	commands    map[string]commandFunc
}

func NewHandler(
	api *telegram.Client,
	gate *guard.Service,
	history *chat.Store,
	orch *chat.Orchestrator,
	transcriber llm.Transcriber,
	log MessageLog,
	logger *slog.Logger,
	cfg Config,
) *Handler {
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 2 * time.Minute
	}
	if cfg.TranscribeTimeout <= 0 {
		cfg.TranscribeTimeout = time.Minute
	}
	h := &Handler{
		api:         api,
		gate:        gate,
		history:     history,
		orch:        orch,
		transcriber: transcriber,
		log:         log,
		logger:      logger,
		cfg:         cfg,
	}
	h.commands = map[string]commandFunc{
		"/start":         h.handleHelp,
		"/help":          h.handleHelp,
		"/password":      h.handlePassword,
		"/reset_context": h.handleReset,
	}
	return h
}

// Commands returns the command list registered with the Bot API at startup.
func Commands() []telegram.BotCommand {
	return []telegram.BotCommand{
		{Command: "/start", Description: "Start the bot"},
		{Command: "/help", Description: "Show the bot's help message"},
	}
}

func (h *Handler) HandleEvent(ctx context.Context, chatID int64, identity string, ev telegram.Event) {
	switch ev.Kind {
	case telegram.EventCommand:
		fn, ok := h.commands[ev.Command]
		if !ok {
			h.reply(ctx, chatID, replyUnknownCommand)
			return
		}
		fn(ctx, chatID, identity, ev.Args)
	case telegram.EventText:
		h.handleText(ctx, chatID, identity, ev.Text)
	case telegram.EventVoice:
		h.handleVoice(ctx, chatID, identity, ev.VoiceFileID)
	}
}

func (h *Handler) handleHelp(ctx context.Context, chatID int64, _, _ string) {
	h.reply(ctx, chatID, replyHelp)
}

func (h *Handler) handlePassword(ctx context.Context, chatID int64, identity, args string) {
	secret := strings.TrimSpace(args)
	if secret == "" {
		h.reply(ctx, chatID, replyMissingPassword)
		return
	}
	if _, ok, err := h.gate.Lookup(ctx, identity); err != nil {
		h.logger.Error("password_lookup_error", "identity", identity, "error", err.Error())
		return
	} else if !ok {
		h.reply(ctx, chatID, replyNoAccess)
		return
	}
	ok, err := h.gate.Verify(ctx, identity, secret)
	if err != nil {
		h.logger.Error("password_verify_error", "identity", identity, "error", err.Error())
		return
	}
	if ok {
		h.reply(ctx, chatID, replyCorrectPassword)
	} else {
		h.reply(ctx, chatID, replyWrongPassword)
	}
}

func (h *Handler) handleReset(ctx context.Context, chatID int64, identity, _ string) {
	if !h.authorized(ctx, chatID, identity) {
		return
	}
	h.history.Reset(identity)
	h.reply(ctx, chatID, replyContextReset)
}

func (h *Handler) handleText(ctx context.Context, chatID int64, identity, text string) {
	if !h.authorized(ctx, chatID, identity) {
		return
	}
	if err := h.log.RecordMessage(ctx, identity, text, false); err != nil {
		h.logger.Warn("record_message_error", "identity", identity, "error", err.Error())
	}

	_ = h.api.SendChatAction(ctx, chatID, "typing")

	taskCtx, cancel := context.WithTimeout(ctx, h.cfg.TaskTimeout)
	reply, err := h.orch.HandleMessage(taskCtx, identity, text)
	cancel()
	if err != nil {
		h.logger.Warn("llm_error", "identity", identity, "error", err.Error())
		h.reply(ctx, chatID, replyBackendDown)
		return
	}

	if err := h.log.RecordMessage(ctx, identity, reply, true); err != nil {
		h.logger.Warn("record_message_error", "identity", identity, "error", err.Error())
	}
	if err := h.api.SendMessageChunked(ctx, chatID, reply); err != nil {
		h.logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
	}
}

func (h *Handler) handleVoice(ctx context.Context, chatID int64, identity, fileID string) {
	if !h.authorized(ctx, chatID, identity) {
		return
	}
	if err := h.log.RecordMessage(ctx, identity, audioPlaceholder, false); err != nil {
		h.logger.Warn("record_message_error", "identity", identity, "error", err.Error())
	}

	file, err := h.api.GetFile(ctx, fileID)
	if err != nil {
		h.logger.Warn("voice_get_file_error", "identity", identity, "error", err.Error())
		h.reply(ctx, chatID, replyTranscribeFailed)
		return
	}
	audio, err := h.api.DownloadFile(ctx, file.FilePath)
	if err != nil {
		h.logger.Warn("voice_download_error", "identity", identity, "error", err.Error())
		h.reply(ctx, chatID, replyTranscribeFailed)
		return
	}

	trCtx, cancel := context.WithTimeout(ctx, h.cfg.TranscribeTimeout)
	text, err := h.transcriber.Transcribe(trCtx, audio, "voice.oga")
	cancel()
	if err != nil {
		h.logger.Warn("transcription_error", "identity", identity, "error", err.Error())
		h.reply(ctx, chatID, replyTranscribeFailed)
		return
	}

	if err := h.log.RecordMessage(ctx, identity, text, true); err != nil {
		h.logger.Warn("record_message_error", "identity", identity, "error", err.Error())
	}
	h.reply(ctx, chatID, text)
}

// authorized runs the gate and renders the denial message itself; denial is
// a normal outcome, not an error path.
func (h *Handler) authorized(ctx context.Context, chatID int64, identity string) bool {
	ok, err := h.gate.Authorize(ctx, identity)
	if err != nil {
		h.logger.Error("authorize_error", "identity", identity, "error", err.Error())
		return false
	}
	if !ok {
		h.reply(ctx, chatID, replyNoAccess)
		return false
	}
	return true
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.api.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
	}
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GabbasovDinar/TelegramBot/guard"
	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
	"github.com/google/uuid"
)

const (
	replyAdminOnly       = "No access to register new user."
	replyMissingUserID   = "Not found telegram user ID to register new user."
	replyUserExists      = "The user is already registered."
	replyUserCreateError = "User creation error."
	replyNoUsers         = "No users registered."
)

// AdminHandler serves the separate admin bot: user provisioning and
// listing. Admin work is quick database access, so events are handled
// inline without worker queues.
type AdminHandler struct {
	api         *telegram.Client
	gate        *guard.Service
	logger      *slog.Logger
	adminUserID string
	newPassword func() string
}

func NewAdminHandler(api *telegram.Client, gate *guard.Service, logger *slog.Logger, adminUserID string) *AdminHandler {
	return &AdminHandler{
		api:         api,
		gate:        gate,
		logger:      logger,
		adminUserID: strings.TrimSpace(adminUserID),
		newPassword: uuid.NewString,
	}
}

func (h *AdminHandler) HandleEvent(ctx context.Context, chatID int64, identity string, ev telegram.Event) {
	if ev.Kind != telegram.EventCommand {
		return
	}
	switch ev.Command {
	case "/create_user":
		h.handleCreateUser(ctx, chatID, identity, ev.Args)
	case "/users":
		h.handleListUsers(ctx, chatID, identity)
	default:
		h.reply(ctx, chatID, replyUnknownCommand)
	}
}

func (h *AdminHandler) handleCreateUser(ctx context.Context, chatID int64, identity, args string) {
	if identity != h.adminUserID {
		h.reply(ctx, chatID, replyAdminOnly)
		return
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.reply(ctx, chatID, replyMissingUserID)
		return
	}
	target := fields[0]

	password := h.newPassword()
	if _, err := h.gate.Create(ctx, target, password); err != nil {
		if errors.Is(err, guard.ErrAlreadyExists) {
			h.reply(ctx, chatID, replyUserExists)
			return
		}
		h.logger.Error("create_user_error", "target", target, "error", err.Error())
		h.reply(ctx, chatID, replyUserCreateError)
		return
	}
	h.logger.Info("user_created", "target", target)
	h.reply(ctx, chatID, fmt.Sprintf("The user was successfully created: Telegram ID %s, Password %s.", target, password))
}

func (h *AdminHandler) handleListUsers(ctx context.Context, chatID int64, identity string) {
	if identity != h.adminUserID {
		h.reply(ctx, chatID, replyAdminOnly)
		return
	}
	creds, err := h.gate.List(ctx)
	if err != nil {
		h.logger.Error("list_users_error", "error", err.Error())
		return
	}
	if len(creds) == 0 {
		h.reply(ctx, chatID, replyNoUsers)
		return
	}
	lines := make([]string, 0, len(creds))
	for _, c := range creds {
		lines = append(lines, fmt.Sprintf("%s active=%t", c.Identity, c.Active))
	}
	h.reply(ctx, chatID, strings.Join(lines, "\n"))
}

func (h *AdminHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.api.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Warn("telegram_send_error", "chat_id", chatID, "error", err.Error())
	}
}

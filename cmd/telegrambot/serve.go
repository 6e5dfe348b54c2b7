package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GabbasovDinar/TelegramBot/bot"
	"github.com/GabbasovDinar/TelegramBot/chat"
	"github.com/GabbasovDinar/TelegramBot/db"
	"github.com/GabbasovDinar/TelegramBot/guard"
	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
	"github.com/GabbasovDinar/TelegramBot/providers/openai"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot (and the admin bot when configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(flagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
			}
			baseURL := strings.TrimRight(strings.TrimSpace(flagOrViperString(cmd, "telegram-base-url", "telegram.base_url")), "/")

			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			dbCfg := db.DefaultConfig()
			dbCfg.Driver = viper.GetString("db.driver")
			dbCfg.DSN = viper.GetString("db.dsn")
			gdb, err := db.Open(dbCfg)
			if err != nil {
				return err
			}
			store := db.NewStore(gdb)
			gate := guard.NewService(store.Credentials())

			backend := openai.New(
				viper.GetString("openai.base_url"),
				viper.GetString("openai.api_key"),
				viper.GetDuration("openai.request_timeout"),
			)
			if m := strings.TrimSpace(viper.GetString("openai.transcription_model")); m != "" {
				backend.TranscriptionModel = m
			}

			history := chat.NewStore(
				viper.GetString("chat.system_prompt"),
				viper.GetInt("chat.history_max_turns"),
			)
			orch := chat.NewOrchestrator(history, backend, chat.OrchestratorConfig{
				Model:       viper.GetString("model"),
				Temperature: viper.GetFloat64("llm.temperature"),
				MaxTokens:   viper.GetInt("llm.max_tokens"),
			})

			pollTimeout := flagOrViperDuration(cmd, "telegram-poll-timeout", "telegram.poll_timeout")
			maxConc := flagOrViperInt(cmd, "telegram-max-concurrency", "telegram.max_concurrency")

			httpClient := &http.Client{Timeout: 60 * time.Second}
			api := telegram.NewClient(httpClient, baseURL, token)

			me, err := api.GetMe(context.Background())
			if err != nil {
				return err
			}
			if err := api.SetMyCommands(context.Background(), bot.Commands()); err != nil {
				logger.Warn("set_my_commands_error", "error", err.Error())
			}

			handler := bot.NewHandler(api, gate, history, orch, backend, store, logger, bot.Config{
				TaskTimeout: viper.GetDuration("llm.task_timeout"),
			})
			dispatcher := bot.NewDispatcher(handler, maxConc)
			poller := bot.NewPoller(api, logger, pollTimeout, dispatcher.Enqueue)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			adminToken := strings.TrimSpace(flagOrViperString(cmd, "telegram-admin-bot-token", "telegram.admin_bot_token"))
			if adminToken != "" {
				adminAPI := telegram.NewClient(httpClient, baseURL, adminToken)
				adminHandler := bot.NewAdminHandler(adminAPI, gate, logger,
					flagOrViperString(cmd, "telegram-admin-user-id", "telegram.admin_user_id"))
				adminPoller := bot.NewPoller(adminAPI, logger, pollTimeout, func(chatID int64, identity string, ev telegram.Event) {
					adminHandler.HandleEvent(ctx, chatID, identity, ev)
				})
				go func() {
					_ = adminPoller.Run(ctx)
				}()
			}

			logger.Info("telegram_start",
				"base_url", baseURL,
				"bot_username", me.Username,
				"bot_id", me.ID,
				"poll_timeout", pollTimeout.String(),
				"max_concurrency", maxConc,
				"history_max_turns", viper.GetInt("chat.history_max_turns"),
				"admin_bot", adminToken != "",
			)

			return poller.Run(ctx)
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("telegram-admin-bot-token", "", "Admin bot token (admin bot disabled when empty).")
	cmd.Flags().String("telegram-admin-user-id", "", "Telegram user id allowed to run admin commands.")
	cmd.Flags().String("telegram-base-url", "https://api.telegram.org", "Telegram API base URL.")
	cmd.Flags().Duration("telegram-poll-timeout", 30*time.Second, "Long polling timeout for getUpdates.")
	cmd.Flags().Int("telegram-max-concurrency", 3, "Max number of chats processed concurrently.")

	return cmd
}

package bot

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/GabbasovDinar/TelegramBot/guard"
	"github.com/GabbasovDinar/TelegramBot/internal/telegram"
)

func newAdminFixture(t *testing.T) (*AdminHandler, *apiRecorder, *guard.Service) {
	t.Helper()
	api, rec := newTestAPI(t)
	gate := guard.NewService(newMemGuardStore())
	h := NewAdminHandler(api, gate, slog.New(slog.NewTextHandler(testWriter{t}, nil)), "999")
	h.newPassword = func() string { return "generated-pw" }
	return h, rec, gate
}

func TestAdminCreateUser(t *testing.T) {
	h, rec, gate := newAdminFixture(t)
	ctx := context.Background()

	h.HandleEvent(ctx, 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/create_user", Args: "42"})

	sent := rec.Sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "Telegram ID 42") || !strings.Contains(sent[0], "generated-pw") {
		t.Fatalf("sent = %v", sent)
	}
	cred, ok, err := gate.Lookup(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("Lookup() = (%v, %v), want created", ok, err)
	}
	if cred.Active {
		t.Fatalf("new user active = true, want false")
	}
	if verified, _ := gate.Verify(ctx, "42", "generated-pw"); !verified {
		t.Fatalf("Verify(generated password) = false, want true")
	}
}

func TestAdminCreateUserDuplicate(t *testing.T) {
	h, rec, _ := newAdminFixture(t)
	ctx := context.Background()

	h.HandleEvent(ctx, 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/create_user", Args: "42"})
	h.HandleEvent(ctx, 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/create_user", Args: "42"})

	sent := rec.Sent()
	if len(sent) != 2 || sent[1] != replyUserExists {
		t.Fatalf("sent = %v", sent)
	}
}

func TestAdminCreateUserDenied(t *testing.T) {
	h, rec, gate := newAdminFixture(t)
	ctx := context.Background()

	h.HandleEvent(ctx, 1, "1000", telegram.Event{Kind: telegram.EventCommand, Command: "/create_user", Args: "42"})

	sent := rec.Sent()
	if len(sent) != 1 || sent[0] != replyAdminOnly {
		t.Fatalf("sent = %v", sent)
	}
	if _, ok, _ := gate.Lookup(ctx, "42"); ok {
		t.Fatalf("user was created by non-admin")
	}
}

func TestAdminCreateUserMissingID(t *testing.T) {
	h, rec, _ := newAdminFixture(t)

	h.HandleEvent(context.Background(), 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/create_user"})

	sent := rec.Sent()
	if len(sent) != 1 || sent[0] != replyMissingUserID {
		t.Fatalf("sent = %v", sent)
	}
}

func TestAdminListUsers(t *testing.T) {
	h, rec, gate := newAdminFixture(t)
	ctx := context.Background()

	h.HandleEvent(ctx, 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/users"})

	if _, err := gate.Create(ctx, "42", "pw"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	h.HandleEvent(ctx, 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/users"})

	sent := rec.Sent()
	if len(sent) != 2 || sent[0] != replyNoUsers {
		t.Fatalf("sent = %v", sent)
	}
	if !strings.Contains(sent[1], "42 active=false") {
		t.Fatalf("users listing = %q", sent[1])
	}
}

func TestAdminUnknownCommand(t *testing.T) {
	h, rec, _ := newAdminFixture(t)

	h.HandleEvent(context.Background(), 1, "999", telegram.Event{Kind: telegram.EventCommand, Command: "/bogus"})
	// Plain text to the admin bot is ignored.
	h.HandleEvent(context.Background(), 1, "999", telegram.Event{Kind: telegram.EventText, Text: "hello"})

	sent := rec.Sent()
	if len(sent) != 1 || sent[0] != replyUnknownCommand {
		t.Fatalf("sent = %v", sent)
	}
}

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/GabbasovDinar/TelegramBot/guard"
)

func guardRecord(identity, hash string) guard.Record {
	return guard.Record{Identity: identity, PasswordHash: hash}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "test.sqlite")
	gdb, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return NewStore(gdb)
}

func TestStoreUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, ok, err := store.FindUser(ctx, "42"); err != nil || ok {
		t.Fatalf("FindUser(absent) = (%v, %v), want (false, nil)", ok, err)
	}

	created, err := store.CreateUser(ctx, "42", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("CreateUser() id = 0, want assigned")
	}
	if created.Active {
		t.Fatalf("CreateUser() active = true, want false")
	}

	user, ok, err := store.FindUser(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("FindUser() = (%v, %v), want (true, nil)", ok, err)
	}
	if user.PasswordHash != "hash" {
		t.Fatalf("FindUser() hash = %q", user.PasswordHash)
	}
}

func TestStoreCreateUserDuplicate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.CreateUser(ctx, "42", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := store.CreateUser(ctx, "42", "other"); err == nil {
		t.Fatalf("CreateUser() duplicate error = nil, want unique violation")
	}
}

func TestStoreSetUserActive(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.CreateUser(ctx, "42", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := store.SetUserActive(ctx, "42", true); err != nil {
		t.Fatalf("SetUserActive(true) error = %v", err)
	}
	user, _, err := store.FindUser(ctx, "42")
	if err != nil || !user.Active {
		t.Fatalf("FindUser() after activate = (%+v, %v)", user, err)
	}
	if err := store.SetUserActive(ctx, "42", false); err != nil {
		t.Fatalf("SetUserActive(false) error = %v", err)
	}
	user, _, _ = store.FindUser(ctx, "42")
	if user.Active {
		t.Fatalf("FindUser() active = true after revoke")
	}

	if err := store.SetUserActive(ctx, "missing", true); err == nil {
		t.Fatalf("SetUserActive(missing) error = nil, want not found")
	}
}

func TestStoreRecordMessage(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.RecordMessage(ctx, "42", "hello", false); err == nil {
		t.Fatalf("RecordMessage(unknown user) error = nil, want not found")
	}

	if _, err := store.CreateUser(ctx, "42", "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := store.RecordMessage(ctx, "42", "hello", false); err != nil {
		t.Fatalf("RecordMessage(user) error = %v", err)
	}
	if err := store.RecordMessage(ctx, "42", "hi there", true); err != nil {
		t.Fatalf("RecordMessage(bot) error = %v", err)
	}
}

func TestCredentialStoreAdapter(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	creds := store.Credentials()

	if _, ok, err := creds.Find(ctx, "42"); err != nil || ok {
		t.Fatalf("Find(absent) = (%v, %v), want (false, nil)", ok, err)
	}

	if err := creds.Create(ctx, guardRecord("42", "hash")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := creds.SetActive(ctx, "42", true); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	rec, ok, err := creds.Find(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("Find() = (%v, %v), want (true, nil)", ok, err)
	}
	if !rec.Active || rec.PasswordHash != "hash" {
		t.Fatalf("Find() record = %+v", rec)
	}

	list, err := creds.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = (%v, %v), want one record", list, err)
	}
}

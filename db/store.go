package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/GabbasovDinar/TelegramBot/db/models"
	"github.com/GabbasovDinar/TelegramBot/guard"
	"gorm.io/gorm"
)

// Store is the durable side of the system: credentials and the append-only
// raw message log, keyed by the Telegram user id.
type Store struct {
	gdb *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

func (s *Store) FindUser(ctx context.Context, telegramID string) (models.User, bool, error) {
	var user models.User
	err := s.gdb.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) CreateUser(ctx context.Context, telegramID, passwordHash string) (models.User, error) {
	user := models.User{TelegramID: telegramID, PasswordHash: passwordHash}
	if err := s.gdb.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.gdb.WithContext(ctx).Order("telegram_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SetUserActive(ctx context.Context, telegramID string, active bool) error {
	res := s.gdb.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found", telegramID)
	}
	return nil
}

// RecordMessage appends one row to the message log for the given identity.
func (s *Store) RecordMessage(ctx context.Context, telegramID, text string, isBot bool) error {
	user, ok, err := s.FindUser(ctx, telegramID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s not found", telegramID)
	}
	msg := models.Message{UserID: user.ID, Text: text, IsBot: isBot}
	return s.gdb.WithContext(ctx).Create(&msg).Error
}

// Credentials adapts the store to the guard's persistence interface.
func (s *Store) Credentials() *CredentialStore {
	return &CredentialStore{store: s}
}

type CredentialStore struct {
	store *Store
}

var _ guard.Store = (*CredentialStore)(nil)

func (c *CredentialStore) Find(ctx context.Context, identity string) (guard.Record, bool, error) {
	user, ok, err := c.store.FindUser(ctx, identity)
	if err != nil || !ok {
		return guard.Record{}, false, err
	}
	return guard.Record{Identity: user.TelegramID, PasswordHash: user.PasswordHash, Active: user.Active}, true, nil
}

func (c *CredentialStore) Create(ctx context.Context, rec guard.Record) error {
	_, err := c.store.CreateUser(ctx, rec.Identity, rec.PasswordHash)
	return err
}

func (c *CredentialStore) SetActive(ctx context.Context, identity string, active bool) error {
	return c.store.SetUserActive(ctx, identity, active)
}

func (c *CredentialStore) List(ctx context.Context) ([]guard.Record, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]guard.Record, 0, len(users))
	for _, user := range users {
		out = append(out, guard.Record{Identity: user.TelegramID, PasswordHash: user.PasswordHash, Active: user.Active})
	}
	return out, nil
}

package models

import "time"

// User is the persisted credential record. PasswordHash holds a salted
// bcrypt hash; the plaintext never touches the database. Active mirrors the
// outcome of the most recent /password attempt.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	TelegramID   string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message is one row of the append-only raw message log. It is independent
// of the in-memory conversation context: resetting the context never
// deletes rows here.
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Text      string `gorm:"not null"`
	IsBot     bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// Package guard decides whether an identity may talk to the bot. Access is
// admin-provisioned: a credential is created out-of-band with a generated
// password, and the user activates it interactively with /password.
package guard

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrAlreadyExists reports a duplicate registration for an identity.
var ErrAlreadyExists = errors.New("user already exists")

// Record is the persisted credential row as the store sees it.
type Record struct {
	Identity     string
	PasswordHash string
	Active       bool
}

// Credential is the caller-facing view; the hash never leaves the package.
type Credential struct {
	Identity string
	Active   bool
}

// Store is the persistence collaborator for credentials. Implementations
// must keep at most one record per identity.
type Store interface {
	Find(ctx context.Context, identity string) (Record, bool, error)
	Create(ctx context.Context, rec Record) error
	SetActive(ctx context.Context, identity string, active bool) error
	List(ctx context.Context) ([]Record, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a credential with a salted bcrypt hash of secret and an
// inactive flag. The plaintext secret is never stored.
func (s *Service) Create(ctx context.Context, identity, secret string) (Credential, error) {
	if _, ok, err := s.store.Find(ctx, identity); err != nil {
		return Credential{}, err
	} else if ok {
		return Credential{}, ErrAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, err
	}
	rec := Record{Identity: identity, PasswordHash: string(hash)}
	if err := s.store.Create(ctx, rec); err != nil {
		return Credential{}, err
	}
	return Credential{Identity: identity}, nil
}

// Lookup is a pure read; the second return reports whether the identity has
// a credential at all.
func (s *Service) Lookup(ctx context.Context, identity string) (Credential, bool, error) {
	rec, ok, err := s.store.Find(ctx, identity)
	if err != nil || !ok {
		return Credential{}, false, err
	}
	return Credential{Identity: rec.Identity, Active: rec.Active}, true, nil
}

// Verify compares secret against the stored hash and overwrites the active
// flag with the outcome, persisting it. Every attempt is authoritative: a
// wrong password revokes access granted by an earlier correct one. An
// unknown identity verifies false without writing anything.
func (s *Service) Verify(ctx context.Context, identity, secret string) (bool, error) {
	rec, ok, err := s.store.Find(ctx, identity)
	if err != nil || !ok {
		return false, err
	}
	match := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(secret)) == nil
	if err := s.store.SetActive(ctx, identity, match); err != nil {
		return false, err
	}
	return match, nil
}

// Authorize is the gate consulted before every conversational action: true
// iff a credential exists and its active flag is set.
func (s *Service) Authorize(ctx context.Context, identity string) (bool, error) {
	rec, ok, err := s.store.Find(ctx, identity)
	if err != nil || !ok {
		return false, err
	}
	return rec.Active, nil
}

// List returns every known credential, for admin reporting.
func (s *Service) List(ctx context.Context) ([]Credential, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Credential, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Credential{Identity: rec.Identity, Active: rec.Active})
	}
	return out, nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
)

var ErrNotFound = errors.New("user not found")

// Directory is the durable registry of users keyed by identity.
type Directory interface {
	Get(ctx context.Context, identity string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, identity string) error
	// All returns every user ordered by identity.
	All(ctx context.Context) ([]domain.User, error)
	// SaveAll replaces the directory contents with users.
	SaveAll(ctx context.Context, users []domain.User) error
	// MarkReminded sets the last reminder date of each listed identity and
	// leaves every other field and record alone. Identities no longer
	// present are skipped.
	MarkReminded(ctx context.Context, dates map[string]domain.Date) error
	Close() error
}

// CredentialCipher seals credentials before they hit disk.
type CredentialCipher interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

func validate(u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	if u.Identity == "" {
		return errors.New("empty identity")
	}
	if u.OffsetHours < domain.MinOffset || u.OffsetHours > domain.MaxOffset {
		return fmt.Errorf("%w: %d", domain.ErrInvalidOffset, u.OffsetHours)
	}
	return nil
}

func sealCredential(c CredentialCipher, s string) (string, error) {
	if c == nil {
		return s, nil
	}
	out, err := c.Seal(s)
	if err != nil {
		return "", fmt.Errorf("seal credential: %w", err)
	}
	return out, nil
}

func openCredential(c CredentialCipher, s string) (string, error) {
	if c == nil {
		return s, nil
	}
	out, err := c.Open(s)
	if err != nil {
		return "", fmt.Errorf("open credential: %w", err)
	}
	return out, nil
}

package accounts

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds account options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetPasswordCost() int
	GetVerificationBaseURL() string
}

// AccountStore persists account records. Every method is atomic for a single
// record. Lookups that miss return ErrAccountNotFound.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	UpdateFields(ctx context.Context, id uuid.UUID, update AccountUpdate) (*Account, error)
}

// PasswordHasher hashes and compares passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Notification is a single outgoing email
type Notification struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers notifications. Errors are returned to the caller, there
// is no retry.
type Notifier interface {
	Send(ctx context.Context, msg Notification) error
}

// AvatarPipeline stores an uploaded profile image and returns the reference
// that should be saved as the account avatar URL.
type AvatarPipeline interface {
	Process(ctx context.Context, accountID uuid.UUID, filename string, src io.Reader) (string, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// NopLogger discards all log lines
type NopLogger struct{}

func (NopLogger) Debug(format string, args ...any) {}
func (NopLogger) Info(format string, args ...any)  {}
func (NopLogger) Warn(format string, args ...any)  {}
func (NopLogger) Error(format string, args ...any) {}

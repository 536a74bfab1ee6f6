package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"-"`
	User      SessionProfile `json:"user"`
}

// SessionIssuer opens and closes account sessions. An account holds one
// session token; issuing a new one replaces the previous value.
type SessionIssuer struct {
	store     AccountStore
	hasher    PasswordHasher
	tokens    TokenService
	dummyHash string
	logger    Logger
}

// SessionOption configures a SessionIssuer
type SessionOption func(*SessionIssuer)

// WithSessionLogger sets the logger
func WithSessionLogger(logger Logger) SessionOption {
	return func(s *SessionIssuer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSessionIssuer returns a new SessionIssuer
func NewSessionIssuer(store AccountStore, hasher PasswordHasher, tokens TokenService, opts ...SessionOption) *SessionIssuer {
	s := &SessionIssuer{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.dummyHash = RandomPasswordHash(hasher)

	return s
}

// Login verifies credentials and stores a freshly minted session token
func (s *SessionIssuer) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := (LoginMessage{Email: email, Password: password}).Validate(); err != nil {
		return nil, ValidationError(err)
	}

	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			_ = s.hasher.ComparePasswordAndHash(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, InternalError(err, "failed to look up account")
	}

	if !account.Verified {
		return nil, ErrEmailNotVerified
	}

	if err := s.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if !goerrors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Error("login compare password: %v", err)
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, InternalError(err, "failed to issue session token")
	}

	updated, err := s.store.UpdateFields(ctx, account.ID, SetSessionToken(token))
	if err != nil {
		return nil, InternalError(err, "failed to store session token")
	}

	s.logger.Debug("session issued for account %s", account.ID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      updated.SessionProfile(),
	}, nil
}

// Logout clears the session token. Calling it without an active session is
// a no-op.
func (s *SessionIssuer) Logout(ctx context.Context, accountID uuid.UUID) error {
	if _, err := s.store.UpdateFields(ctx, accountID, ClearSessionToken()); err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return ErrNotAuthorized
		}
		return InternalError(err, "failed to clear session token")
	}

	s.logger.Debug("session cleared for account %s", accountID)

	return nil
}


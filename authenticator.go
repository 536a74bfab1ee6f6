package accounts

import (
	"context"
	"crypto/subtle"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// AuthScheme is the only accepted authorization scheme
const AuthScheme = "Bearer"

// RequestAuthenticator resolves an authorization header to an Account
type RequestAuthenticator struct {
	store  AccountStore
	tokens TokenService
	logger Logger
}

// AuthenticatorOption configures a RequestAuthenticator
type AuthenticatorOption func(*RequestAuthenticator)

// WithAuthenticatorLogger sets the logger
func WithAuthenticatorLogger(logger Logger) AuthenticatorOption {
	return func(a *RequestAuthenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewRequestAuthenticator returns a new RequestAuthenticator. tokens must be
// built with the same signing key used to mint session tokens.
func NewRequestAuthenticator(store AccountStore, tokens TokenService, opts ...AuthenticatorOption) *RequestAuthenticator {
	a := &RequestAuthenticator{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Authenticate returns the account for header or exactly one error.
// The presented token must match the session token stored on the account,
// so tokens superseded by a later login or cleared by logout are rejected.
func (a *RequestAuthenticator) Authenticate(ctx context.Context, header string) (*Account, error) {
	raw, ok := ExtractBearerToken(header)
	if !ok {
		return nil, ErrNotAuthorized
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		a.logger.Debug("bearer token rejected: %v", err)
		return nil, ErrNotAuthorized
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return nil, ErrNotAuthorized
	}

	account, err := a.store.FindByID(ctx, accountID)
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, InternalError(err, "failed to look up account")
	}

	if !account.HasSession() || subtle.ConstantTimeCompare([]byte(account.SessionToken), []byte(raw)) != 1 {
		a.logger.Debug("session token mismatch for account %s", account.ID)
		return nil, ErrNotAuthorized
	}

	if !account.Verified {
		return nil, ErrAccountNotVerified
	}

	return account, nil
}

// ExtractBearerToken splits a "Bearer <token>" header value
func ExtractBearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != AuthScheme {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

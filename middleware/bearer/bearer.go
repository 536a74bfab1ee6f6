package bearer

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
)

// Authenticator resolves an authorization header value to an account
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*accounts.Account, error)
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the account has been attached. Defaults to c.Next.
	SuccessHandler fiber.Handler
	// ErrorHandler receives the authentication error. Defaults to returning
	// the error so the app error handler renders it.
	ErrorHandler fiber.ErrorHandler
	// Authenticator is required
	Authenticator Authenticator
	// ContextKey is the Locals key the account is stored under
	ContextKey string
	// Header is the request header carrying the token
	Header string
}

// New returns a fiber handler that authenticates the request. Each request
// ends in exactly one of ErrorHandler or SuccessHandler.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		account, err := cfg.Authenticator.Authenticate(c.UserContext(), c.Get(cfg.Header))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, account)
		c.SetUserContext(accounts.WithContext(c.UserContext(), account))

		return cfg.SuccessHandler(c)
	}
}

// GetDefaultConfig fills the zero values of config
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Authenticator == nil {
		panic("ACCOUNTS: bearer middleware configuration: Authenticator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "account"
	}

	if cfg.Header == "" {
		cfg.Header = fiber.HeaderAuthorization
	}

	return cfg
}

// AccountFromLocals returns the account stored by the middleware
func AccountFromLocals(c *fiber.Ctx, key string) (*accounts.Account, bool) {
	if key == "" {
		key = "account"
	}
	account, ok := c.Locals(key).(*accounts.Account)
	return account, ok && account != nil
}

// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/avatar"
	"github.com/goliatone/go-accounts/mailer"
)

const (
	AvatarDriverLocal = "local"
	AvatarDriverS3    = "s3"
)

// Config is the service configuration. It implements accounts.Config.
type Config struct {
	SecretKey            string `env:"SECRET_KEY,required,notEmpty"`
	BaseURL              string `env:"BASE_URL" envDefault:"http://localhost:3000/api/users"`
	HTTPAddr             string `env:"HTTP_ADDR" envDefault:":3000"`
	RoutePrefix          string `env:"ROUTE_PREFIX" envDefault:"/api/users"`
	AppEnv               string `env:"APP_ENV" envDefault:"development"`
	DatabaseDriver       string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL          string `env:"DATABASE_URL" envDefault:"file:accounts.db?cache=shared"`
	BcryptCost           int    `env:"BCRYPT_COST" envDefault:"10"`
	TokenExpirationHours int    `env:"TOKEN_EXPIRATION_HOURS" envDefault:"23"`
	TokenIssuer          string `env:"TOKEN_ISSUER" envDefault:"go-accounts"`
	PhoneRegion          string `env:"PHONE_REGION" envDefault:"US"`
	SMTP                 SMTP
	Avatar               Avatar
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
}

type Avatar struct {
	Driver      string `env:"AVATAR_DRIVER" envDefault:"local"`
	Dir         string `env:"AVATAR_DIR" envDefault:"public/avatars"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

var _ accounts.Config = (*Config)(nil)

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross field constraints
func (c *Config) Validate() error {
	switch c.Avatar.Driver {
	case AvatarDriverLocal:
	case AvatarDriverS3:
		if c.Avatar.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when AVATAR_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown AVATAR_DRIVER %q", c.Avatar.Driver)
	}

	if c.TokenExpirationHours <= 0 {
		return fmt.Errorf("TOKEN_EXPIRATION_HOURS must be positive")
	}

	return nil
}

func (c *Config) GetSigningKey() string {
	return c.SecretKey
}

func (c *Config) GetTokenExpiration() int {
	return c.TokenExpirationHours
}

func (c *Config) GetIssuer() string {
	return c.TokenIssuer
}

func (c *Config) GetPasswordCost() int {
	return c.BcryptCost
}

func (c *Config) GetVerificationBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SMTPConfig returns the mailer settings
func (c *Config) SMTPConfig() mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.User,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
	}
}

// S3Config returns the avatar object storage settings
func (c *Config) S3Config() avatar.S3Config {
	return avatar.S3Config{
		Region:    c.Avatar.S3Region,
		Bucket:    c.Avatar.S3Bucket,
		Endpoint:  c.Avatar.S3Endpoint,
		AccessKey: c.Avatar.S3AccessKey,
		SecretKey: c.Avatar.S3SecretKey,
		PublicURL: c.Avatar.S3PublicURL,
	}
}

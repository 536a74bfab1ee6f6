package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Manager exposes the repositories sharing one database handle
type Manager struct {
	db       *bun.DB
	accounts *Accounts
}

// NewManager returns a Manager for db
func NewManager(db *bun.DB) *Manager {
	return &Manager{
		db:       db,
		accounts: NewAccounts(db),
	}
}

func (m *Manager) Validate() error {
	if m.db == nil {
		return errors.New("repository db should be initialized")
	}

	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	return nil
}

func (m *Manager) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// Migrate applies the embedded migrations
func (m *Manager) Migrate(ctx context.Context) error {
	return Migrate(ctx, m.db)
}

func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *Manager) Accounts() *Accounts {
	return m.accounts
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-accounts"
	repo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

const pgUniqueViolation = "23505"

// Accounts implements accounts.AccountStore using Bun.
type Accounts struct {
	repo.Repository[*accounts.Account]
	db *bun.DB
}

var _ accounts.AccountStore = (*Accounts)(nil)

// NewAccounts creates a new account store.
func NewAccounts(db *bun.DB) *Accounts {
	base := repo.NewRepository[*accounts.Account](db, repo.ModelHandlers[*accounts.Account]{
		NewRecord: func() *accounts.Account { return &accounts.Account{} },
		GetID: func(a *accounts.Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *accounts.Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &Accounts{
		Repository: base,
		db:         db,
	}
}

// FindByEmail implements accounts.AccountStore. The match is case sensitive.
func (r *Accounts) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	return r.findOne(ctx, "email", email)
}

// FindByVerificationToken implements accounts.AccountStore.
func (r *Accounts) FindByVerificationToken(ctx context.Context, token string) (*accounts.Account, error) {
	if token == "" {
		return nil, accounts.ErrAccountNotFound
	}
	return r.findOne(ctx, "verification_token", token)
}

// FindByID implements accounts.AccountStore.
func (r *Accounts) FindByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	record, err := r.Repository.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapNotFound(err)
	}
	return record, nil
}

// Create implements accounts.AccountStore.
func (r *Accounts) Create(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	if account == nil {
		return nil, errors.New("account must not be nil")
	}

	prepareAccountDefaults(account)

	record, err := r.Repository.Create(ctx, account)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, accounts.ErrEmailInUse
		}
		return nil, err
	}

	return record, nil
}

// UpdateFields implements accounts.AccountStore. All columns in update are
// written by a single UPDATE statement.
func (r *Accounts) UpdateFields(ctx context.Context, id uuid.UUID, update accounts.AccountUpdate) (*accounts.Account, error) {
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	q := r.db.NewUpdate().
		Model((*accounts.Account)(nil)).
		Where("id = ?", id)

	if update.SessionToken != nil {
		q = q.Set("session_token = ?", *update.SessionToken)
	}

	if update.MarkVerified {
		q = q.Set("verified = ?", true).
			Set("verification_token = NULL")
	}

	if update.Subscription != nil {
		q = q.Set("subscription = ?", *update.Subscription)
	}

	if update.AvatarURL != nil {
		q = q.Set("avatar_url = ?", *update.AvatarURL)
	}

	q = q.Set("updated_at = ?", time.Now().UTC())

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, accounts.ErrAccountNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *Accounts) findOne(ctx context.Context, column, value string) (*accounts.Account, error) {
	record := &accounts.Account{}
	err := r.db.NewSelect().
		Model(record).
		Where("? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return record, nil
}

func prepareAccountDefaults(record *accounts.Account) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Subscription == "" {
		record.Subscription = accounts.SubscriptionStarter
	}

	if record.AvatarURL == "" {
		record.AvatarURL = accounts.DefaultAvatarURL(record.Email)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || repo.IsRecordNotFound(err) {
		return accounts.ErrAccountNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

package accounts

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// VerificationWorkflow registers accounts and drives the pending -> verified
// transition.
type VerificationWorkflow struct {
	store       AccountStore
	hasher      PasswordHasher
	notifier    Notifier
	baseURL     string
	phoneRegion string
	useHashid   bool
	logger      Logger
}

// VerificationOption configures a VerificationWorkflow
type VerificationOption func(*VerificationWorkflow)

// WithVerificationLogger sets the logger
func WithVerificationLogger(logger Logger) VerificationOption {
	return func(w *VerificationWorkflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHashidIDs derives account ids from the email instead of a random UUID
func WithHashidIDs() VerificationOption {
	return func(w *VerificationWorkflow) {
		w.useHashid = true
	}
}

// WithPhoneRegion sets the region used to parse phone numbers
func WithPhoneRegion(region string) VerificationOption {
	return func(w *VerificationWorkflow) {
		if region != "" {
			w.phoneRegion = region
		}
	}
}

// NewVerificationWorkflow returns a new VerificationWorkflow
func NewVerificationWorkflow(store AccountStore, hasher PasswordHasher, notifier Notifier, cfg Config, opts ...VerificationOption) *VerificationWorkflow {
	w := &VerificationWorkflow{
		store:       store,
		hasher:      hasher,
		notifier:    notifier,
		baseURL:     cfg.GetVerificationBaseURL(),
		phoneRegion: DefaultPhoneRegion,
		logger:      defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	return w
}

// Register creates a pending account and mails its verification link
func (w *VerificationWorkflow) Register(ctx context.Context, msg RegisterAccountMessage) (*PublicProfile, error) {
	if err := msg.Validate(); err != nil {
		return nil, ValidationError(err)
	}

	phone, err := NormalizePhone(msg.Phone, w.phoneRegion)
	if err != nil {
		return nil, ValidationError(err)
	}

	existing, err := w.store.FindByEmail(ctx, msg.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailInUse
	}
	if err != nil && !goerrors.Is(err, ErrAccountNotFound) {
		return nil, InternalError(err, "failed to look up account")
	}

	hash, err := w.hasher.HashPassword(msg.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, InternalError(err, "failed to hash password")
	}

	token := uuid.NewString()

	subscription := msg.Subscription
	if subscription == "" {
		subscription = SubscriptionStarter
	}

	account := &Account{
		ID:                w.newAccountID(msg.Email),
		Email:             msg.Email,
		PasswordHash:      hash,
		Name:              strings.TrimSpace(msg.Name),
		Phone:             phone,
		AvatarURL:         DefaultAvatarURL(msg.Email),
		Subscription:      subscription,
		Verified:          false,
		VerificationToken: &token,
		SessionToken:      "",
	}

	created, err := w.store.Create(ctx, account)
	if err != nil {
		if goerrors.Is(err, ErrEmailInUse) {
			return nil, ErrEmailInUse
		}
		return nil, InternalError(err, "failed to create account")
	}

	if err := w.sendVerification(ctx, created.Email, token); err != nil {
		return nil, err
	}

	w.logger.Info("account registered: %s", created.ID)

	profile := created.PublicProfile()
	return &profile, nil
}

// Verify consumes token and marks its account verified. A consumed or
// unknown token returns ErrVerificationTokenNotFound.
func (w *VerificationWorkflow) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrVerificationTokenNotFound
	}

	account, err := w.store.FindByVerificationToken(ctx, token)
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return ErrVerificationTokenNotFound
		}
		return InternalError(err, "failed to look up verification token")
	}

	if _, err := w.store.UpdateFields(ctx, account.ID, AccountUpdate{MarkVerified: true}); err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return ErrVerificationTokenNotFound
		}
		return InternalError(err, "failed to mark account verified")
	}

	w.logger.Info("account verified: %s", account.ID)

	return nil
}

// ResendVerification mails the existing verification token again
func (w *VerificationWorkflow) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}

	account, err := w.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return InternalError(err, "failed to look up account")
	}

	if account.Verified || !account.PendingVerification() {
		return ErrAlreadyVerified
	}

	return w.sendVerification(ctx, account.Email, *account.VerificationToken)
}

func (w *VerificationWorkflow) sendVerification(ctx context.Context, to, token string) error {
	msg, err := VerificationEmail(to, w.baseURL, token)
	if err != nil {
		return err
	}

	if err := w.notifier.Send(ctx, msg); err != nil {
		w.logger.Error("failed to send verification email: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email").
			WithTextCode(TextCodeVerificationEmailFail).
			WithCode(goerrors.CodeInternal)
	}

	return nil
}

func (w *VerificationWorkflow) newAccountID(email string) uuid.UUID {
	if w.useHashid {
		if id, err := hashid.NewUUID(email); err == nil {
			return id
		}
	}
	return uuid.New()
}

package accounts

import (
	"context"
	"io"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ProfileService updates the mutable parts of an account
type ProfileService struct {
	store   AccountStore
	avatars AvatarPipeline
	logger  Logger
}

// ProfileOption configures a ProfileService
type ProfileOption func(*ProfileService)

// WithProfileLogger sets the logger
func WithProfileLogger(logger Logger) ProfileOption {
	return func(p *ProfileService) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfileService returns a new ProfileService
func NewProfileService(store AccountStore, avatars AvatarPipeline, opts ...ProfileOption) *ProfileService {
	p := &ProfileService{
		store:   store,
		avatars: avatars,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// UpdateSubscription sets the subscription tier
func (p *ProfileService) UpdateSubscription(ctx context.Context, accountID uuid.UUID, tier SubscriptionTier) (*Account, error) {
	if !IsSubscriptionTier(tier) {
		return nil, ErrInvalidSubscription
	}

	account, err := p.store.UpdateFields(ctx, accountID, AccountUpdate{Subscription: &tier})
	if err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, InternalError(err, "failed to update subscription")
	}

	return account, nil
}

// UpdateAvatar runs src through the avatar pipeline and stores the result
func (p *ProfileService) UpdateAvatar(ctx context.Context, accountID uuid.UUID, filename string, src io.Reader) (string, error) {
	if p.avatars == nil {
		return "", InternalError(goerrors.New("avatar pipeline not configured", goerrors.CategoryInternal), "avatar uploads are not available")
	}

	avatarURL, err := p.avatars.Process(ctx, accountID, filename, src)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return "", richErr
		}
		return "", InternalError(err, "failed to process avatar")
	}

	if _, err := p.store.UpdateFields(ctx, accountID, AccountUpdate{AvatarURL: &avatarURL}); err != nil {
		if goerrors.Is(err, ErrAccountNotFound) {
			return "", ErrNotAuthorized
		}
		return "", InternalError(err, "failed to update avatar")
	}

	p.logger.Debug("avatar updated for account %s", accountID)

	return avatarURL, nil
}

package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubscriptionTier is the account plan
type SubscriptionTier = string

const (
	// SubscriptionStarter is the default plan
	SubscriptionStarter SubscriptionTier = "starter"
	// SubscriptionPro is the pro plan
	SubscriptionPro SubscriptionTier = "pro"
	// SubscriptionBusiness is the business plan
	SubscriptionBusiness SubscriptionTier = "business"
)

// SubscriptionTiers lists the accepted plans
var SubscriptionTiers = []SubscriptionTier{
	SubscriptionStarter,
	SubscriptionPro,
	SubscriptionBusiness,
}

// IsSubscriptionTier reports whether tier is one of SubscriptionTiers
func IsSubscriptionTier(tier string) bool {
	for _, t := range SubscriptionTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Account is the account model.
// VerificationToken is nil once the account is verified, SessionToken is
// empty when there is no active session.
type Account struct {
	bun.BaseModel     `bun:"table:accounts,alias:acc"`
	ID                uuid.UUID        `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Email             string           `bun:"email,notnull,unique" json:"email"`
	PasswordHash      string           `bun:"password_hash,notnull" json:"-"`
	Name              string           `bun:"name,notnull" json:"name"`
	Phone             string           `bun:"phone_number,notnull" json:"phone_number,omitempty"`
	AvatarURL         string           `bun:"avatar_url,notnull" json:"avatar_url,omitempty"`
	Subscription      SubscriptionTier `bun:"subscription,notnull" json:"subscription"`
	Verified          bool             `bun:"verified,notnull" json:"verified"`
	VerificationToken *string          `bun:"verification_token" json:"-"`
	SessionToken      string           `bun:"session_token,notnull" json:"-"`
	CreatedAt         *time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PendingVerification reports whether the account still holds a verification token
func (a *Account) PendingVerification() bool {
	return a != nil && a.VerificationToken != nil
}

// HasSession reports whether the account has an active session token
func (a *Account) HasSession() bool {
	return a != nil && a.SessionToken != ""
}

// PublicProfile returns the externally visible profile
func (a *Account) PublicProfile() PublicProfile {
	return PublicProfile{
		Email: a.Email,
		Name:  a.Name,
	}
}

// SessionProfile returns the profile sent along a session token
func (a *Account) SessionProfile() SessionProfile {
	return SessionProfile{
		Email:        a.Email,
		Subscription: a.Subscription,
	}
}

// PublicProfile never carries credentials
type PublicProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionProfile is the minimal profile returned on login
type SessionProfile struct {
	Email        string           `json:"email"`
	Subscription SubscriptionTier `json:"subscription"`
}

// AccountUpdate is a partial update applied atomically to one account.
// Nil fields are left untouched. MarkVerified sets verified and clears the
// verification token in the same write.
type AccountUpdate struct {
	SessionToken *string
	MarkVerified bool
	Subscription *SubscriptionTier
	AvatarURL    *string
}

// IsEmpty reports whether the update would change nothing
func (u AccountUpdate) IsEmpty() bool {
	return u.SessionToken == nil &&
		!u.MarkVerified &&
		u.Subscription == nil &&
		u.AvatarURL == nil
}

// SetSessionToken returns an update that replaces the session token
func SetSessionToken(token string) AccountUpdate {
	return AccountUpdate{SessionToken: &token}
}

// ClearSessionToken returns an update that removes the session token
func ClearSessionToken() AccountUpdate {
	return SetSessionToken("")
}

package accounts

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse phone numbers without a country code
const DefaultPhoneRegion = "US"

// RegisterAccountMessage carries the registration payload
type RegisterAccountMessage struct {
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	Name         string `json:"name" form:"name"`
	Phone        string `json:"phone_number" form:"phone_number"`
	Subscription string `json:"subscription" form:"subscription"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// Validate will validate the payload
func (e RegisterAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(3, 254), is.Email),
		// bcrypt ignores bytes after the 72nd
		validation.Field(&e.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&e.Name, validation.Length(0, 200)),
		validation.Field(&e.Phone, validation.Length(0, 32)),
		validation.Field(&e.Subscription, validation.In(toAny(SubscriptionTiers)...)),
	)
}

// LoginMessage carries the login payload
type LoginMessage struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (e LoginMessage) Type() string { return "account.login" }

// Validate will validate the payload
func (e LoginMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required),
		validation.Field(&e.Password, validation.Required),
	)
}

// ResendVerificationMessage carries the resend payload
type ResendVerificationMessage struct {
	Email string `json:"email" form:"email"`
}

func (e ResendVerificationMessage) Type() string { return "account.verification.resend" }

// UpdateSubscriptionMessage carries the subscription payload
type UpdateSubscriptionMessage struct {
	Subscription string `json:"subscription" form:"subscription"`
}

func (e UpdateSubscriptionMessage) Type() string { return "account.subscription.update" }

// Validate will validate the payload
func (e UpdateSubscriptionMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Subscription, validation.Required, validation.In(toAny(SubscriptionTiers)...)),
	)
}

// NormalizePhone parses phone in region and formats it as E.164.
// An empty phone is returned as is.
func NormalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}

	if region == "" {
		region = DefaultPhoneRegion
	}

	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", validation.Errors{"phone_number": err}
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", validation.Errors{"phone_number": errors.New("must be a valid phone number")}
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

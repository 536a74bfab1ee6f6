package accounts

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeEmailInUse            = "account_email_in_use"
	TextCodeAlreadyVerified       = "account_already_verified"
	TextCodeInvalidCredentials    = "account_invalid_credentials"
	TextCodeEmailNotVerified      = "account_email_not_verified"
	TextCodeNotAuthorized         = "account_not_authorized"
	TextCodeTokenExpired          = "account_token_expired"
	TextCodeTokenMalformed        = "account_token_malformed"
	TextCodeAccountNotVerified    = "account_not_verified"
	TextCodeVerificationNotFound  = "account_verification_not_found"
	TextCodeAccountNotFound       = "account_not_found"
	TextCodeEmptyPassword         = "account_empty_password"
	TextCodeValidation            = "account_validation_failed"
	TextCodeInvalidSubscription   = "account_invalid_subscription"
	TextCodeVerificationEmailFail = "account_verification_email_failed"
	TextCodeInternal              = "account_internal_error"
)

// ErrEmailInUse is returned when registering an email that already exists
var ErrEmailInUse = goerrors.New("Email in use", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailInUse).
	WithCode(goerrors.CodeConflict)

// ErrAlreadyVerified is returned when resending verification to a verified account
var ErrAlreadyVerified = goerrors.New("Verification has already been passed", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials is the generic login failure. It is used both for an
// unknown email and a wrong password.
var ErrInvalidCredentials = goerrors.New("Email or password is wrong", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailNotVerified is returned by login for pending accounts
var ErrEmailNotVerified = goerrors.New("Please verify your email", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(goerrors.CodeUnauthorized)

// ErrNotAuthorized is returned when a request carries no usable session
var ErrNotAuthorized = goerrors.New("Not authorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for expired bearer tokens
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for bearer tokens that fail to parse or verify
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotVerified is returned by the request gate for pending accounts
var ErrAccountNotVerified = goerrors.New("Account is not verified", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountNotVerified).
	WithCode(goerrors.CodeUnauthorized)

// ErrVerificationTokenNotFound is returned for unknown or consumed verification tokens
var ErrVerificationTokenNotFound = goerrors.New("Not Found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeVerificationNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrAccountNotFound is returned by stores when no record matches
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingEmail is returned when resend is called without an email
var ErrMissingEmail = goerrors.New("missing required field email", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidSubscription is returned for unknown subscription tiers
var ErrInvalidSubscription = goerrors.New("invalid subscription", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidSubscription).
	WithCode(goerrors.CodeBadRequest)

// ValidationError wraps a payload validation failure
func ValidationError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// InternalError wraps an unexpected failure. The message is safe to show to
// clients, the cause stays in the wrapped error.
func InternalError(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode(TextCodeInternal).
		WithCode(goerrors.CodeInternal)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

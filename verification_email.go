package accounts

import (
	"strings"

	"github.com/flosch/pongo2/v6"
	goerrors "github.com/goliatone/go-errors"
)

// VerificationEmailSubject is the subject line of verification emails
const VerificationEmailSubject = "Welcome on board"

const verificationHTMLTemplate = `<p>To confirm your registration, please click on the link below</p>
<a href="{{ link }}">Click me</a>
`

const verificationTextTemplate = `To confirm your registration, please click on the link below:

{{ link }}
`

var (
	verificationHTML = pongo2.Must(pongo2.FromString(verificationHTMLTemplate))
	verificationText = pongo2.Must(pongo2.FromString(verificationTextTemplate))
)

// VerificationLink returns baseURL + "/verify/" + token
func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + token
}

// VerificationEmail builds the notification that carries the verification link
func VerificationEmail(to, baseURL, token string) (Notification, error) {
	data := pongo2.Context{
		"link": VerificationLink(baseURL, token),
	}

	html, err := verificationHTML.Execute(data)
	if err != nil {
		return Notification{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render verification email")
	}

	text, err := verificationText.Execute(data)
	if err != nil {
		return Notification{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render verification email")
	}

	return Notification{
		To:      to,
		Subject: VerificationEmailSubject,
		HTML:    html,
		Text:    text,
	}, nil
}

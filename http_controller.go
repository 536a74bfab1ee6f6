package accounts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AvatarFormField is the multipart field holding the avatar upload
const AvatarFormField = "avatar"

// AccountControllerRoutes holds the route paths relative to the mount point
type AccountControllerRoutes struct {
	Register     string
	Login        string
	Current      string
	Logout       string
	Subscription string
	Avatar       string
	Verify       string
	VerifyToken  string
}

// AccountController exposes the account operations over HTTP
type AccountController struct {
	Logger        Logger
	Routes        *AccountControllerRoutes
	verifications *VerificationWorkflow
	sessions      *SessionIssuer
	profiles      *ProfileService
}

// AccountControllerOption configures an AccountController
type AccountControllerOption func(*AccountController)

// WithControllerLogger sets the logger
func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(a *AccountController) {
		if logger != nil {
			a.Logger = logger
		}
	}
}

// NewAccountController returns a controller with the default routes
func NewAccountController(verifications *VerificationWorkflow, sessions *SessionIssuer, profiles *ProfileService, opts ...AccountControllerOption) *AccountController {
	a := &AccountController{
		Logger: defLogger{},
		Routes: &AccountControllerRoutes{
			Register:     "/register",
			Login:        "/login",
			Current:      "/current",
			Logout:       "/logout",
			Subscription: "/subscription",
			Avatar:       "/avatar",
			Verify:       "/verify",
			VerifyToken:  "/verify/:token",
		},
		verifications: verifications,
		sessions:      sessions,
		profiles:      profiles,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// RegisterRoutes mounts the controller. protected must authenticate the
// request and store the account in the user context before calling Next.
func (a *AccountController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	r.Post(a.Routes.Register, a.Register)
	r.Post(a.Routes.Login, a.Login)
	r.Get(a.Routes.VerifyToken, a.Verify)
	r.Post(a.Routes.Verify, a.ResendVerification)

	r.Get(a.Routes.Current, protected, a.Current)
	r.Post(a.Routes.Logout, protected, a.Logout)
	r.Patch(a.Routes.Subscription, protected, a.UpdateSubscription)
	r.Patch(a.Routes.Avatar, protected, a.UpdateAvatar)
}

func (a *AccountController) Register(c *fiber.Ctx) error {
	payload := new(RegisterAccountMessage)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return ValidationError(errors.New("failed to parse body"))
	}

	profile, err := a.verifications.Register(c.UserContext(), *payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (a *AccountController) Login(c *fiber.Ctx) error {
	payload := new(LoginMessage)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return ValidationError(errors.New("failed to parse body"))
	}

	res, err := a.sessions.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(res)
}

func (a *AccountController) Current(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(account.PublicProfile())
}

func (a *AccountController) Logout(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	if err := a.sessions.Logout(c.UserContext(), account.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *AccountController) UpdateSubscription(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	payload := new(UpdateSubscriptionMessage)
	if err := c.BodyParser(payload); err != nil {
		return ValidationError(errors.New("failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err)
	}

	updated, err := a.profiles.UpdateSubscription(c.UserContext(), account.ID, payload.Subscription)
	if err != nil {
		return err
	}

	return c.JSON(updated.SessionProfile())
}

func (a *AccountController) UpdateAvatar(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(AvatarFormField)
	if err != nil {
		return ValidationError(errors.New("missing required field avatar"))
	}

	src, err := fh.Open()
	if err != nil {
		return InternalError(err, "failed to read upload")
	}
	defer src.Close()

	avatarURL, err := a.profiles.UpdateAvatar(c.UserContext(), account.ID, fh.Filename, src)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"avatarURL": avatarURL})
}

func (a *AccountController) Verify(c *fiber.Ctx) error {
	if err := a.verifications.Verify(c.UserContext(), c.Params("token")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification successful"})
}

func (a *AccountController) ResendVerification(c *fiber.Ctx) error {
	payload := new(ResendVerificationMessage)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return ValidationError(errors.New("failed to parse body"))
		}
	}

	if err := a.verifications.ResendVerification(c.UserContext(), payload.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification email sent"})
}

func currentAccount(c *fiber.Ctx) (*Account, error) {
	account, ok := FromContext(c.UserContext())
	if !ok {
		return nil, ErrNotAuthorized
	}
	return account, nil
}

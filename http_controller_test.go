package accounts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/avatar"
	"github.com/goliatone/go-accounts/mailer"
	"github.com/goliatone/go-accounts/middleware/bearer"
	"github.com/goliatone/go-accounts/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const apiPrefix = "/api/users"

type apiHarness struct {
	app       *fiber.App
	mail      *mailer.Log
	avatarDir string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	db, err := repository.Open(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.Migrate(context.Background(), db))

	logger := accounts.NopLogger{}
	cfg := newTestConfig()
	store := repository.NewAccounts(db)
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)
	tokens := accounts.NewTokenServiceFromConfig(cfg, accounts.WithTokenLogger(logger))
	mail := mailer.NewLog(logger)

	avatarDir := t.TempDir()
	avatars, err := avatar.NewLocal(avatarDir, "avatars")
	require.NoError(t, err)

	controller := accounts.NewAccountController(
		accounts.NewVerificationWorkflow(store, hasher, mail, cfg, accounts.WithVerificationLogger(logger)),
		accounts.NewSessionIssuer(store, hasher, tokens, accounts.WithSessionLogger(logger)),
		accounts.NewProfileService(store, avatars, accounts.WithProfileLogger(logger)),
		accounts.WithControllerLogger(logger),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: accounts.NewErrorHandler(logger),
	})
	controller.RegisterRoutes(app.Group(apiPrefix), bearer.New(bearer.Config{
		Authenticator: accounts.NewRequestAuthenticator(store, tokens, accounts.WithAuthenticatorLogger(logger)),
	}))

	return &apiHarness{app: app, mail: mail, avatarDir: avatarDir}
}

func (h *apiHarness) do(t *testing.T, method, path string, payload any, token string) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, apiPrefix+path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	return h.send(t, req)
}

func (h *apiHarness) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (h *apiHarness) verificationToken(t *testing.T, email string) string {
	t.Helper()

	msg, ok := h.mail.Last(email)
	require.True(t, ok, "no mail sent to %s", email)

	idx := strings.Index(msg.Text, "/verify/")
	require.GreaterOrEqual(t, idx, 0)
	return strings.Fields(msg.Text[idx+len("/verify/"):])[0]
}

func (h *apiHarness) login(t *testing.T, email, password string) string {
	t.Helper()

	status, body := h.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status, body)

	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestAccountLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	const email = "a@x.io"

	status, body := h.do(t, http.MethodPost, "/register", map[string]string{
		"email":    email,
		"password": "secret1",
		"name":     "Ann",
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, map[string]any{"email": email, "name": "Ann"}, body)

	status, body = h.do(t, http.MethodPost, "/register", map[string]string{
		"email":    email,
		"password": "other-secret",
	}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email in use", body["message"])

	status, body = h.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Please verify your email", body["message"])

	status, _ = h.do(t, http.MethodPost, "/verify", map[string]string{"email": email}, "")
	assert.Equal(t, http.StatusOK, status)

	verifyToken := h.verificationToken(t, email)

	status, body = h.do(t, http.MethodGet, "/verify/"+verifyToken, nil, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Verification successful", body["message"])

	status, _ = h.do(t, http.MethodGet, "/verify/"+verifyToken, nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = h.do(t, http.MethodPost, "/verify", map[string]string{"email": email}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Verification has already been passed", body["message"])

	status, body = h.do(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email or password is wrong", body["message"])

	t1 := h.login(t, email, "secret1")

	status, body = h.do(t, http.MethodGet, "/current", nil, t1)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, map[string]any{"email": email, "name": "Ann"}, body)

	t2 := h.login(t, email, "secret1")
	assert.NotEqual(t, t1, t2)

	status, _ = h.do(t, http.MethodGet, "/current", nil, t1)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(t, http.MethodGet, "/current", nil, t2)
	assert.Equal(t, http.StatusOK, status)

	status, body = h.do(t, http.MethodPatch, "/subscription", map[string]string{"subscription": "pro"}, t2)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, map[string]any{"email": email, "subscription": "pro"}, body)

	status, _ = h.do(t, http.MethodPatch, "/subscription", map[string]string{"subscription": "gold"}, t2)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = h.uploadAvatar(t, t2, "me.png")
	require.Equal(t, http.StatusOK, status, body)
	avatarURL, _ := body["avatarURL"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "avatars/"), avatarURL)
	assert.True(t, strings.HasSuffix(avatarURL, "_me.png"), avatarURL)
	_, err := os.Stat(filepath.Join(h.avatarDir, filepath.Base(avatarURL)))
	assert.NoError(t, err)

	status, _ = h.do(t, http.MethodPost, "/logout", nil, t2)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = h.do(t, http.MethodPost, "/logout", nil, t2)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(t, http.MethodGet, "/current", nil, t2)
	assert.Equal(t, http.StatusUnauthorized, status)

	t3 := h.login(t, email, "secret1")
	status, body = h.do(t, http.MethodGet, "/current", nil, t3)
	assert.Equal(t, http.StatusOK, status, body)
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	h := newAPIHarness(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/current"},
		{http.MethodPost, "/logout"},
		{http.MethodPatch, "/subscription"},
		{http.MethodPatch, "/avatar"},
	}

	for _, r := range routes {
		status, body := h.do(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, status, r.path)
		assert.Equal(t, "Not authorized", body["message"], r.path)

		status, _ = h.do(t, r.method, r.path, nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, status, r.path)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := newAPIHarness(t)

	status, _ := h.do(t, http.MethodPost, "/register", map[string]string{"email": "nope", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do(t, http.MethodPost, "/register", map[string]string{"email": "a@x.io"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, apiPrefix+"/register", strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	status, _ = h.send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestResendVerificationEdgeCases(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/verify", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing required field email", body["message"])

	status, _ = h.do(t, http.MethodPost, "/verify", map[string]string{"email": "ghost@x.io"}, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = h.do(t, http.MethodGet, "/verify/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body["message"])
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/login", map[string]string{
		"email":    "ghost@x.io",
		"password": "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email or password is wrong", body["message"])
}

func (h *apiHarness) uploadAvatar(t *testing.T, token, filename string) (int, map[string]any) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for x := 0; x < 32; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 16), B: 128, A: 255})
		}
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(accounts.AvatarFormField, filename)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPatch, apiPrefix+"/avatar", buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	return h.send(t, req)
}

package accounts_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: accounts.NewErrorHandler(accounts.NopLogger{}),
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func decodeErrorResponse(t *testing.T, body io.Reader) accounts.ErrorResponse {
	t.Helper()
	var out accounts.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestErrorHandlerRendersRichErrors(t *testing.T) {
	resp, err := errorApp(accounts.ErrEmailInUse).Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeErrorResponse(t, resp.Body)
	assert.Equal(t, "Email in use", body.Message)
	assert.Equal(t, accounts.TextCodeEmailInUse, body.TextCode)
}

func TestErrorHandlerHidesInternalCauses(t *testing.T) {
	cause := errors.New("pq: password authentication failed for user admin")
	resp, err := errorApp(cause).Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeErrorResponse(t, resp.Body)
	assert.NotContains(t, body.Message, "password authentication")
}

func TestErrorHandlerFiberErrors(t *testing.T) {
	resp, err := errorApp(fiber.ErrMethodNotAllowed).Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

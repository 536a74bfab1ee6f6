package accounts

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrorResponse is the JSON body sent for failed requests
type ErrorResponse struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

// NewErrorHandler returns the fiber error handler that turns any error into
// a single JSON response.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Message: fiberErr.Message,
			})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = InternalError(err, "An unexpected server error occurred")
		}

		status := StatusFromError(richErr)

		if status >= http.StatusInternalServerError {
			logger.Error(
				"request failed %s %s: %v details=%s",
				c.Method(), c.OriginalURL(), err, print.MaybePrettyJSON(richErr.Metadata),
			)
		} else {
			logger.Debug("request rejected %s %s: %s (%s)", c.Method(), c.OriginalURL(), richErr.Message, richErr.TextCode)
		}

		return c.Status(status).JSON(ErrorResponse{
			Message:  richErr.Message,
			TextCode: richErr.TextCode,
		})
	}
}

// StatusFromError resolves the HTTP status for err
func StatusFromError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	if richErr.Code >= 400 && richErr.Code < 600 {
		return richErr.Code
	}

	switch richErr.Category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

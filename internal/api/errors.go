package api

import (
	"errors"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// writeError maps the error taxonomy onto HTTP codes. Unexpected errors
// get a generic message; the detail only goes to the server log.
func writeError(c echo.Context, err error) error {
	var validationErr *entity.ValidationError
	var rangeErr *entity.RangeError

	switch {
	case errors.Is(err, entity.ErrInsufficientStock):
		return c.JSON(400, map[string]string{"error": "Insufficient stock"})
	case errors.As(err, &validationErr), errors.As(err, &rangeErr):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrDuplicateOrder):
		return c.JSON(409, map[string]string{"error": err.Error()})
	default:
		logger.Error().Err(err).Str("path", c.Path()).Msg("Unexpected error")
		return c.JSON(500, map[string]string{"error": "failed to process request"})
	}
}

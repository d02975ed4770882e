package server

import (
	"errors"
	"time"

	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/brettbedarf/imgnav/requests"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = fiber.HeaderXRequestID

// loggerKey holds the request scoped zerolog.Logger in fiber locals
const loggerKey = "logger"

// requestLogger stores a logger tagged with the request id in locals and
// logs the outcome of the request
func requestLogger(c *fiber.Ctx) error {
	logger := util.GetLogger("HTTP").With().
		Str("request_id", c.GetRespHeader(RequestIDHeader)).Logger()
	c.Locals(loggerKey, logger)

	start := time.Now()
	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	var evt *zerolog.Event
	if status >= fiber.StatusInternalServerError {
		evt = logger.Warn()
	} else {
		evt = logger.Trace()
	}
	evt.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Int("bytes", len(c.Response().Body())).
		Dur("elapsed", time.Since(start)).
		Msg("Handled request")
	return nil
}

// loggerFrom returns the request scoped logger held in a locals value, or a
// component logger when the middleware did not run
func loggerFrom(local interface{}) zerolog.Logger {
	if l, ok := local.(zerolog.Logger); ok {
		return l
	}
	return util.GetLogger("HTTP")
}

// handleError answers errors that escape a handler, i.e. unknown routes or
// wrong methods, with an ErrorDTO
func handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	dto := requests.NewErrorDTO(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			dto.Kind = requests.KindBadRequest
		}
	}
	return c.Status(code).JSON(dto)
}

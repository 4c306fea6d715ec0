package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/media-share/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "internal server error"

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors as ErrorResponse. Server errors are logged with
// their cause and reach the client only as a generic message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"route", c.Path(),
			"error", err,
		)
		msg = internalErrorMessage
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Error: msg})
	}
	if writeErr != nil {
		logger.FromContext(c.Request().Context()).Error("write error response", "error", writeErr)
	}
}

func serverError(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}

func parsePostID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	return uint(id), nil
}

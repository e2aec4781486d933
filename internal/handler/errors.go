package handler

import (
	"fmt"
	"net/http"
	"payment-notify-relay/internal/dto"
	"payment-notify-relay/internal/logger"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// APIError is an error with a client facing status and machine readable code.
type APIError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func internalError(code string, cause error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: code, Cause: cause}
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return e.Code
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrorHandler renders every handler error as {"error": code}. Details of
// server side failures only go to the log.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := dto.ErrorResponse{Error: "internal_error"}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
			status = apiErr.Status
			body = dto.ErrorResponse{Error: apiErr.Code, Message: apiErr.Message}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			body = dto.ErrorResponse{Error: statusCode(status), Message: fmt.Sprint(httpErr.Message)}
		}

		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context(), log).WithError(err).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.FromContext(c.Request().Context(), log).WithError(err).Warn("write error response")
		}
	}
}

func statusCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}

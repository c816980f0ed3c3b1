package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
}

// Translator renders validation failures in the caller's language.
type Translator interface {
	Translate(err error, acceptLanguage string) []string
}

var kindStatus = map[apperrors.Kind]int{
	apperrors.NotFound:     http.StatusNotFound,
	apperrors.Conflict:     http.StatusConflict,
	apperrors.Forbidden:    http.StatusForbidden,
	apperrors.Unauthorized: http.StatusUnauthorized,
	apperrors.Validation:   http.StatusBadRequest,
	apperrors.Internal:     http.StatusInternalServerError,
}

// NewHTTPErrorHandler maps application errors onto status codes and JSON bodies.
func NewHTTPErrorHandler(tr Translator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		resp := toResponse(err, c, tr)

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(resp.StatusCode)
		} else {
			werr = c.JSON(resp.StatusCode, resp)
		}
		if werr != nil {
			log.WithError(werr).Error("failed to write error response")
		}
	}
}

func toResponse(err error, c echo.Context, tr Translator) ErrorResponse {
	var (
		verrs  validator.ValidationErrors
		appErr *apperrors.Error
		he     *echo.HTTPError
	)
	switch {
	case errors.As(err, &verrs):
		resp := newResponse(http.StatusBadRequest, "validation failed")
		if tr != nil {
			resp.Details = tr.Translate(verrs, c.Request().Header.Get("Accept-Language"))
		}
		return resp

	case errors.As(err, &appErr):
		status := kindStatus[appErr.Kind]
		if appErr.Kind == apperrors.Internal {
			logInternal(c, err)
			return newResponse(status, "internal server error")
		}
		return newResponse(status, appErr.Message)

	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			logInternal(c, err)
		}
		return newResponse(he.Code, msg)

	default:
		logInternal(c, err)
		return newResponse(http.StatusInternalServerError, "internal server error")
	}
}

func newResponse(status int, message string) ErrorResponse {
	return ErrorResponse{StatusCode: status, Error: http.StatusText(status), Message: message}
}

func logInternal(c echo.Context, err error) {
	log.WithError(err).WithFields(log.Fields{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"method":     c.Request().Method,
		"uri":        c.Request().RequestURI,
	}).Error("internal error")
}

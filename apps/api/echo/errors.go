package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/auth"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	errorResponse struct {
		Error string `json:"error"`
	}

	validationErrorResponse struct {
		Error   string            `json:"error"`
		Details []core.FieldError `json:"details"`
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body interface{}

		var (
			valErr  *core.ValidationError
			valErrs validator.ValidationErrors
			httpErr *echo.HTTPError
		)

		switch {
		case errors.As(err, &valErr):
			details := valErr.Fields
			if details == nil {
				details = []core.FieldError{}
			}
			code = http.StatusBadRequest
			body = validationErrorResponse{Error: valErr.Error(), Details: details}
		case errors.As(err, &valErrs):
			code = http.StatusBadRequest
			body = validationErrorResponse{Error: core.ErrValidation.Error(), Details: core.FieldErrors(valErrs, translator)}
		case errors.As(err, &httpErr):
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			code = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				body = errorResponse{Error: m}
			} else {
				body = echo.Map{"error": httpErr.Message}
			}
		case errors.Is(err, user.ErrInvalidCredentials),
			errors.Is(err, auth.ErrMissingToken),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrUnauthenticated):
			code = http.StatusUnauthorized
			body = errorResponse{Error: errors.Cause(err).Error()}
		case errors.Is(err, auth.ErrForbidden):
			code = http.StatusForbidden
			body = errorResponse{Error: auth.ErrForbidden.Error()}
		case errors.Is(err, user.ErrNotFound),
			errors.Is(err, student.ErrProfileNotFound),
			errors.Is(err, teacher.ErrProfileNotFound):
			code = http.StatusNotFound
			body = errorResponse{Error: errors.Cause(err).Error()}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			body = errorResponse{Error: msg}

			if logger != nil {
				var person core.Person
				if id := contextIdentity(ctx); id != nil {
					person.ID = id.UserID
				}
				logger.Error(msg, errors.Wrap(err, msg), person, map[string]interface{}{
					"method": ctx.Request().Method,
					"path":   ctx.Request().URL.Path,
				})
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

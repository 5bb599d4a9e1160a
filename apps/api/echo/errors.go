package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errAIUnavailable        = echo.NewHTTPError(http.StatusBadGateway, "AI service failed to produce a valid response")
)

// newAppHTTPErrorHandler maps application errors to JSON responses.
// Validation failures come back as {field: message} maps, plain errors as
// {"error": message}. A core.shutdown error triggers signalShutdown.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := resolveError(err, ctx, translator, logger, signalShutdown)

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func resolveError(
	err error,
	ctx echo.Context,
	translator ut.Translator,
	logger core.Logger,
	signalShutdown func(),
) (int, interface{}) {
	switch cause := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if cause == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, cause.Message
		}
		if herr, ok := cause.Internal.(*echo.HTTPError); ok {
			cause = herr
		}
		return cause.Code, cause.Message

	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(cause))
		for _, vErr := range cause {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		return http.StatusBadRequest, fldErrs

	case *core.ValidationError:
		if cause.Fields == nil {
			return http.StatusBadRequest, cause.Error()
		}
		fldErrs := make(map[string]string, len(cause.Fields))
		for _, fErr := range cause.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return http.StatusBadRequest, fldErrs
	}

	// anything else is a server error
	msg := http.StatusText(http.StatusInternalServerError)

	var usr user.User
	if claims, cErr := getContextClaims(ctx); cErr == nil {
		usr.ID = claims.Subject
		usr.Username = claims.Username
		usr.Email = claims.Email
	}
	logger.Error(msg, errors.Wrap(err, msg), usr)

	if core.IsShutdown(err) {
		signalShutdown()
	}
	return http.StatusInternalServerError, msg
}

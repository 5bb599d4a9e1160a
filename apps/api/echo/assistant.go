package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/assistant"
)

type assistantApi struct {
	svc      assistant.ServiceInterface
	validate *validator.Validate
}

func registerAssistantAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc assistant.ServiceInterface,
	validate *validator.Validate,
) {
	api := assistantApi{
		svc:      svc,
		validate: validate,
	}

	g.Group("/assistant", jwt).POST("/ask", api.ask)
}

func (api *assistantApi) ask(ctx echo.Context) error {
	var data assistant.Prompt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Prompt")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reply, err := api.svc.Ask(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case core.ErrAIBlocked, core.ErrAIEmptyResponse, core.ErrAINotConfigured:
			return errAIUnavailable
		}
		return errors.Wrap(err, "asking assistant")
	}
	return ctx.JSON(http.StatusOK, reply)
}

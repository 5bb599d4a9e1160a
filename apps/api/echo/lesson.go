package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/lesson"
)

type lessonApi struct {
	svc      lesson.ServiceInterface
	validate *validator.Validate
}

func registerLessonAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc lesson.ServiceInterface,
	validate *validator.Validate,
) {
	api := lessonApi{
		svc:      svc,
		validate: validate,
	}

	g.Group("/lessons", jwt).POST("", api.build)
}

func (api *lessonApi) build(ctx echo.Context) error {
	var data lesson.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Request")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lsn, err := api.svc.Build(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "building lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/notes"
)

type notesApi struct {
	svc      notes.ServiceInterface
	validate *validator.Validate
}

func registerNotesAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc notes.ServiceInterface,
	validate *validator.Validate,
) {
	api := notesApi{
		svc:      svc,
		validate: validate,
	}

	ng := g.Group("/notes", jwt)
	ng.POST("/generate", api.generate)
	ng.POST("/export", api.export)
	ng.POST("/email", api.email)
}

// Handlers

func (api *notesApi) generate(ctx echo.Context) error {
	var data notes.GenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	pack, err := api.svc.Generate(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case core.ErrAIBlocked, core.ErrAIEmptyResponse, core.ErrAINotConfigured:
			return errAIUnavailable
		}
		return errors.Wrap(err, "generating study notes")
	}
	return ctx.JSON(http.StatusOK, pack)
}

func (api *notesApi) export(ctx echo.Context) error {
	var data notes.ExportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ExportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.Export(data)
	if err != nil {
		return errors.Wrap(err, "exporting study notes")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return ctx.Blob(http.StatusOK, doc.ContentType, doc.Content.Bytes())
}

func (api *notesApi) email(ctx echo.Context) error {
	var data notes.EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.Email(data); err != nil {
		return errors.Wrap(err, "emailing study notes")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Your study notes are on their way to " + data.Email + "."})
}

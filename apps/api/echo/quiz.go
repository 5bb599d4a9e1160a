package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/quiz"
)

type quizApi struct {
	svc      quiz.ServiceInterface
	validate *validator.Validate
}

func registerQuizAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc quiz.ServiceInterface,
	validate *validator.Validate,
) {
	api := quizApi{
		svc:      svc,
		validate: validate,
	}

	qg := g.Group("/quizzes", jwt)
	qg.POST("/generate", api.generate)
	qg.GET("/history", api.queryHistory)
	qg.GET("/history/:id", api.retrieveHistory)
	qg.GET("/:id", api.retrieve)
	qg.POST("/:id/submit", api.submit)

	g.Group("/courses", jwt).GET("/:id/quizzes", api.queryByCourse)
}

// Handlers

func (api *quizApi) generate(ctx echo.Context) error {
	var data quiz.GenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	qz, err := api.svc.Generate(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		switch errors.Cause(err) {
		case quiz.ErrMalformedQuiz, core.ErrAIBlocked, core.ErrAIEmptyResponse, core.ErrAINotConfigured:
			return errAIUnavailable
		}
		return errors.Wrap(err, "generating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding quiz by ID")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) queryByCourse(ctx echo.Context) error {
	quizzes, err := api.svc.QueryByCourse(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	if quizzes == nil {
		quizzes = []quiz.Quiz{}
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) submit(ctx echo.Context) error {
	var data quiz.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	hist, err := api.svc.Submit(claims.Subject, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusCreated, hist)
}

func (api *quizApi) queryHistory(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	attempts, err := api.svc.QueryHistory(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying quiz history")
	}
	if attempts == nil {
		attempts = []quiz.History{}
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *quizApi) retrieveHistory(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	hist, err := api.svc.GetHistory(claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrHistoryNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding quiz attempt by ID")
	}
	return ctx.JSON(http.StatusOK, hist)
}

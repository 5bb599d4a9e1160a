package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/user"
)

type courseApi struct {
	svc      course.ServiceInterface
	userSvc  user.ServiceInterface
	validate *validator.Validate
}

func registerCourseAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc course.ServiceInterface,
	userSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := courseApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, staffMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, staffMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
	cg.POST("/:id/videos", api.addVideo, staffMiddleware())
	cg.GET("/:id/progress", api.progress)

	vg := g.Group("/videos", jwt)
	vg.PUT("/:id", api.updateVideo, staffMiddleware())
	vg.DELETE("/:id", api.destroyVideo, staffMiddleware())
	vg.POST("/:id/complete", api.completeVideo)
	vg.DELETE("/:id/complete", api.uncompleteVideo)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.Query(filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(crs, api.validate); err != nil {
		return err
	}

	crs, err = api.svc.Update(crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) addVideo(ctx echo.Context) error {
	var data course.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vid, err := api.svc.AddVideo(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding video")
	}
	return ctx.JSON(http.StatusCreated, vid)
}

func (api *courseApi) updateVideo(ctx echo.Context) error {
	vid, err := api.svc.GetVideoByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrVideoNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding video by ID")
	}

	var data course.UpdateVideo
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVideo")
	}
	if err = data.Validate(vid, api.validate); err != nil {
		return err
	}

	vid, err = api.svc.UpdateVideo(vid.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating video")
	}
	return ctx.JSON(http.StatusOK, vid)
}

func (api *courseApi) destroyVideo(ctx echo.Context) error {
	if _, err := api.svc.GetVideoByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrVideoNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding video by ID")
	}
	if err := api.svc.DeleteVideos(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting video")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) completeVideo(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.CompleteVideo(ctxUsr.ID, ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrVideoNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "completing video")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) uncompleteVideo(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.UncompleteVideo(ctxUsr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "uncompleting video")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) progress(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prog, err := api.svc.GetProgress(ctxUsr.ID, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}

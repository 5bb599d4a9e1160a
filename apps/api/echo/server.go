package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/assistant"
	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/lesson"
	"github.com/zuritech/elimu/core/notes"
	"github.com/zuritech/elimu/core/quiz"
	"github.com/zuritech/elimu/core/user"
)

type (
	// ServerDeps are the Server's dependencies.
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		UserSvc      user.ServiceInterface
		CourseSvc    course.ServiceInterface
		QuizSvc      quiz.ServiceInterface
		AssistantSvc assistant.ServiceInterface
		NotesSvc     notes.ServiceInterface
		LessonSvc    lesson.ServiceInterface
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	initAuth(deps.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.Static("/media", conf.Media.Root)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.deps.UserSvc, s.deps.Validate, s.deps.Translator)
	registerCourseAPI(v1, jwt, s.deps.CourseSvc, s.deps.UserSvc, s.deps.Validate)
	registerQuizAPI(v1, jwt, s.deps.QuizSvc, s.deps.Validate)
	registerAssistantAPI(v1, jwt, s.deps.AssistantSvc, s.deps.Validate)
	registerNotesAPI(v1, jwt, s.deps.NotesSvc, s.deps.Validate)
	registerLessonAPI(v1, jwt, s.deps.LessonSvc, s.deps.Validate)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Elimu API!")
}

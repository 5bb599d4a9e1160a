package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	echoapi "github.com/zuritech/elimu/apps/api/echo"
	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/assistant"
	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/lesson"
	"github.com/zuritech/elimu/core/notes"
	"github.com/zuritech/elimu/core/quiz"
	"github.com/zuritech/elimu/core/user"
	aisvc "github.com/zuritech/elimu/services/ai"
	docgensvc "github.com/zuritech/elimu/services/docgen"
	emailsvc "github.com/zuritech/elimu/services/email"
	logsvc "github.com/zuritech/elimu/services/logger"
	searchsvc "github.com/zuritech/elimu/services/search"
	ttssvc "github.com/zuritech/elimu/services/tts"
	"github.com/zuritech/elimu/storage/database"
	sqlxrepos "github.com/zuritech/elimu/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	sqlxDB := sqlx.NewDb(db, "postgres")

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var gen core.TextGenerator
	gen, err = aisvc.NewGeminiService(conf, logger)
	if err != nil {
		logger.Warn(fmt.Sprintf("AI service unavailable: %v", err))
		gen = core.DisabledTextGenerator{}
	}

	var webSearcher lesson.WebSearcher
	if svc, err := searchsvc.NewGoogleSearchService(conf); err != nil {
		logger.Warn(fmt.Sprintf("web search unavailable: %v", err))
	} else {
		webSearcher = svc
	}

	var imageSearcher lesson.ImageSearcher
	if svc, err := searchsvc.NewUnsplashService(conf); err != nil {
		logger.Warn(fmt.Sprintf("image search unavailable: %v", err))
	} else {
		imageSearcher = svc
	}

	var videoSearcher lesson.VideoSearcher
	if svc, err := searchsvc.NewYouTubeSearchService(conf); err != nil {
		logger.Warn(fmt.Sprintf("video search unavailable: %v", err))
	} else {
		videoSearcher = svc
	}

	var speech lesson.SpeechSynthesizer
	ttsSvc, err := ttssvc.NewService(conf, logger)
	if err != nil {
		logger.Warn(fmt.Sprintf("speech synthesis unavailable: %v", err))
	} else {
		speech = ttsSvc
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sqlxDB), mailSvc, conf)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(sqlxDB))
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(sqlxDB), gen)
	assistantSvc := assistant.NewService(gen)
	notesSvc := notes.NewService(gen, docgensvc.NewExporter(), mailSvc, conf)
	lessonSvc := lesson.NewService(webSearcher, imageSearcher, videoSearcher, speech, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	user.LoadCommonPasswords(logger)

	// =========================================================================
	// Start Background Jobs

	if ttsSvc != nil {
		sched := cron.New()
		if _, err = sched.AddFunc(conf.Media.AudioPruneSchedule, func() {
			ttsSvc.PruneOlderThan(conf.Media.AudioRetention)
		}); err != nil {
			logger.Error(fmt.Sprintf("scheduling audio cache pruning: %v", err), err)
		} else {
			sched.Start()
			defer sched.Stop()
		}
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			UserSvc:      usrSvc,
			CourseSvc:    courseSvc,
			QuizSvc:      quizSvc,
			AssistantSvc: assistantSvc,
			NotesSvc:     notesSvc,
			LessonSvc:    lessonSvc,
			Validate:     validate,
			Translator:   translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

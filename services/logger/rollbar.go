package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/user"
)

// RollbarLogger reports to Rollbar and mirrors everything to a std logger.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) { rollbar.SetEnabled(enabled) }

// log forwards to rollbar and the std logger. A user.User anywhere in args
// tags the report with that person; any other args are passed through.
func (l RollbarLogger) log(report func(...interface{}), msg string, args []interface{}) {
	l.std.Println(msg)

	fwd := append(make([]interface{}, 0, len(args)+1), msg)
	tagged := false
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
		if usr, ok := arg.(user.User); ok {
			if !tagged {
				rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
				tagged = true
			}
			continue
		}
		fwd = append(fwd, arg)
	}
	if !tagged {
		rollbar.ClearPerson()
	}
	report(fwd...)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.Debug, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.Info, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.Warning, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.Error, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.Critical, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}

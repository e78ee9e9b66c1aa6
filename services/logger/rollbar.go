package logsvc

import (
	"context"
	"fmt"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

// RollbarLogger writes every entry to zap and reports warnings and errors to Rollbar.
type RollbarLogger struct {
	zl      *zap.SugaredLogger
	enabled bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger wraps zl. Rollbar reporting stays off when no token is configured.
func NewRollbarLogger(zl *zap.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)

	l := &RollbarLogger{zl: zl.Sugar()}
	l.Enable(conf.RollbarToken != "" && !conf.TestMode)
	return l
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.enabled = enabled
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, core.Person
// The person is attached to each report through its context.
func (l *RollbarLogger) prepare(msg string, args []interface{}) (rbArgs []interface{}, fields []interface{}) {
	var personSet bool
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)

	for i, arg := range args {
		switch v := arg.(type) {
		case core.Person:
			if !personSet { // only set one Person
				person := &rollbar.Person{Id: v.ID, Username: v.Name, Email: v.Email}
				rbArgs = append(rbArgs, rollbar.NewPersonContext(context.Background(), person))
				fields = append(fields, "userId", v.ID)
				personSet = true
			}
			continue
		case error:
			fields = append(fields, zap.Error(v))
		case map[string]interface{}:
			for k, val := range v {
				fields = append(fields, k, val)
			}
		default:
			fields = append(fields, fmt.Sprintf("arg%d", i), v)
		}
		rbArgs = append(rbArgs, arg)
	}
	return rbArgs, fields
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	_, fields := l.prepare(msg, args)
	l.zl.Debugw(msg, fields...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	_, fields := l.prepare(msg, args)
	l.zl.Infow(msg, fields...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Warning(rbArgs...)
	}
	l.zl.Warnw(msg, fields...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Error(rbArgs...)
	}
	l.zl.Errorw(msg, fields...)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Critical(rbArgs...)
		rollbar.Close()
	}
	l.zl.Fatalw(msg, fields...)
}

// Sync flushes buffered log entries.
func (l *RollbarLogger) Sync() error {
	if l.enabled {
		rollbar.Wait()
	}
	return l.zl.Sync()
}

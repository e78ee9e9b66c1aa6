package logsvc

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

func newObservedLogger(t *testing.T) (*RollbarLogger, *observer.ObservedLogs) {
	t.Helper()
	zcore, logs := observer.New(zapcore.DebugLevel)
	l := NewRollbarLogger(zap.New(zcore), &core.Config{Env: "test", TestMode: true})
	require.False(t, l.enabled)
	return l, logs
}

func TestRollbarLogger_Fields(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Error("saving quiz", errors.New("boom"), map[string]interface{}{"quiz": 3}, core.Person{ID: "u-1", Email: "a@b.rw"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "saving quiz", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 3, ctx["quiz"])
	assert.Equal(t, "u-1", ctx["userId"])
}

func TestRollbarLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	levels := make([]zapcore.Level, 0, 4)
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
}

func TestRollbarLogger_prepare_person(t *testing.T) {
	l, _ := newObservedLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u-%d", i)
			rbArgs, fields := l.prepare("boom", []interface{}{core.Person{ID: id}, core.Person{ID: "ignored"}})

			var persons []*rollbar.Person
			for _, a := range rbArgs {
				if ctx, ok := a.(context.Context); ok {
					if p, found := rollbar.PersonFromContext(ctx); found {
						persons = append(persons, p)
					}
				}
			}
			if assert.Len(t, persons, 1) {
				assert.Equal(t, id, persons[0].Id)
			}
			assert.Equal(t, []interface{}{"userId", id}, fields)
		}(i)
	}
	wg.Wait()
}

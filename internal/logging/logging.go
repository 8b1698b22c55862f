// Package logging provides the core's process-wide structured logger:
// WithField/WithFields context, leveled methods, and a lazily
// initialized singleton, backed by zap's SugaredLogger.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Logger wraps a zap.SugaredLogger, carrying a fixed set of context
// fields that are attached to every entry it emits.
type Logger struct {
	sugar  *zap.SugaredLogger
	fields []interface{}
}

var (
	global     *Logger
	globalOnce sync.Once
)

// Init builds the global logger. json selects the production (JSON)
// zap encoder; otherwise a human-readable console encoder is used.
func Init(json bool) {
	globalOnce.Do(func() {
		var base *zap.Logger
		var err error
		if json {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}
		global = &Logger{sugar: base.Sugar()}
	})
}

// Get returns the global logger, initializing it with development
// defaults if Init was never called.
func Get() *Logger {
	if global == nil {
		Init(false)
	}
	return global
}

// WithField returns a derived logger carrying one additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a derived logger carrying additional fields merged
// over the receiver's existing ones.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	next := make([]interface{}, len(l.fields), len(l.fields)+2*len(fields))
	copy(next, l.fields)
	for k, v := range fields {
		next = append(next, k, v)
	}
	return &Logger{sugar: l.sugar, fields: next}
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.sugar.With(l.fields...).Debugf(msg, args...)
}

func (l *Logger) Infof(msg string, args ...interface{}) {
	l.sugar.With(l.fields...).Infof(msg, args...)
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.sugar.With(l.fields...).Warnf(msg, args...)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.sugar.With(l.fields...).Errorf(msg, args...)
}

// Sync flushes any buffered log entries; callers should defer it once at
// process startup.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

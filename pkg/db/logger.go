package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/redact"
)

// gormLogger routes gorm diagnostics to the operational logger. Statement
// text is redacted since policy rules and reasons may carry secrets.
type gormLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

func newLogger(debug bool, slow time.Duration) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gormLogger{level: level, slow: slow}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		logging.L().Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		logging.L().Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		logging.L().Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		logging.L().Warnw("sql statement failed",
			"sql", redact.Sensitive(sql),
			"rows", rows,
			"elapsed", elapsed,
			"error", err,
		)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := fc()
		logging.L().Warnw("slow sql statement",
			"sql", redact.Sensitive(sql),
			"rows", rows,
			"elapsed", elapsed,
		)
	case l.level >= logger.Info:
		sql, rows := fc()
		logging.L().Debugw("sql statement",
			"sql", redact.Sensitive(sql),
			"rows", rows,
			"elapsed", elapsed,
		)
	}
}

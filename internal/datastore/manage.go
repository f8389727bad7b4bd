package datastore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
)

// DefaultSlowQueryThreshold defines the duration after which a query is
// considered slow. Resolver lookups are single-row indexed reads; anything
// near this threshold indicates a missing index or a saturated database.
const DefaultSlowQueryThreshold = 1 * time.Second

// getLogger returns the shared datastore service logger.
func getLogger() *slog.Logger {
	if l := logging.ForService("datastore"); l != nil {
		return l
	}
	return slog.Default().With("service", "datastore")
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		slogWriter{logger: getLogger()},
		gormlogger.Config{
			SlowThreshold:             DefaultSlowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // zero rows is the resolver's normal miss path
			Colorful:                  false,
		},
	)
}

// slogWriter adapts slog to gorm's logger.Writer interface.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Info("gorm", "msg", fmt.Sprintf(format, args...))
}

// performAutoMigration runs gorm auto-migration for the image schema.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&ImageRecord{}); err != nil {
		return errors.Newf("failed to auto-migrate %s database: %v", dbType, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Context("operation", "auto_migration").
			Build()
	}

	if debug {
		getLogger().Debug("Database initialized",
			"db_type", dbType,
			"connection", connectionInfo)
	}

	return nil
}

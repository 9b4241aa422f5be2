package db

import (
	"context"
	"errors"
	"fmt"
	"github.com/avast/retry-go"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"strings"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

const (
	txMaxAttempts = 3
	txRetryDelay  = 50 * time.Millisecond
)

// Models lists every table owned by this service, in migration order.
var Models = []any{
	&ShippingAddress{},
	&BillingAddress{},
	&Order{},
}

func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models...)
}

// RetryableTransaction runs fn in a transaction and starts over with a fresh
// transaction when the store reports a lock conflict. Any other error is
// returned as is after the rollback.
func RetryableTransaction(ctx context.Context, logger *zap.Logger, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return retry.Do(func() error {
		return db.WithContext(ctx).Transaction(fn)
	},
		retry.Context(ctx),
		retry.Attempts(txMaxAttempts),
		retry.Delay(txRetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransientError),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("retrying transaction", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

// IsTransientError reports whether err is a lock or deadlock error that is
// expected to go away when the transaction is replayed.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"database is locked",
		"database table is locked",
		"deadlock found",
		"lock wait timeout exceeded",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}

	return false
}

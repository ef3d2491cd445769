package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func Open(config *service.Config) (*bun.DB, error) {
	dsn := config.DatabaseUri
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") && !strings.HasPrefix(dsn, "unix://") {
		return nil, fmt.Errorf("invalid database connection string %s, only (postgres|postgresql|unix):// is supported", dsn)
	}

	dbConn := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(dbConn, pgdialect.New())
	db.SetMaxOpenConns(config.DatabaseMaxConns)
	db.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	db.AddQueryHook(bundebug.NewQueryHook(
		// disable the hook
		bundebug.WithEnabled(false),
		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	// the database may still be coming up at process start, retry the first ping
	err := backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.DatabaseTimeout)*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, err
	}

	return db, nil
}

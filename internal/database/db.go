package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Supported SQL drivers.  The values double as goose dialect names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open connects to MySQL or PostgreSQL and verifies the connection.
func Open(driver, dsn string) (*sql.DB, error) {
	var (
		sqlDriver string
		err       error
	)
	switch driver {
	case DriverMySQL:
		sqlDriver = "mysql"
		dsn, err = mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// mysqlDSN forces parseTime and UTC so DATETIME columns scan into time.Time
// consistently regardless of what the operator put in DB_URL.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

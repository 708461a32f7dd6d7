package db

import (
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/config"
)

const defaultParams = "parseTime=true&multiStatements=true"

// DSN builds the driver connection string; MYSQL_PARAMS is parsed so that
// credentials with special characters are escaped by the driver.
func DSN(conf *config.Config) (string, error) {
	params := conf.DbParams
	if params == "" {
		params = defaultParams
	}

	cfg, err := mysql.ParseDSN("/?" + params)
	if err != nil {
		return "", fmt.Errorf("parse mysql params: %w", err)
	}
	cfg.User = conf.DbUser
	cfg.Passwd = conf.DbPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conf.DbHost, conf.DbPort)
	cfg.DBName = conf.DbName
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	dsn, err := DSN(conf)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	return db, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns    = 50
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = time.Minute
	defaultPingTimeout     = 10 * time.Second
	defaultMigrateTimeout  = 30 * time.Second
)

// DB represents the database connection
type DB struct {
	logger *logrus.Logger
	*gorm.DB
}

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrateTimeout  time.Duration
}

func (c *Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = defaultMaxOpenConns
	}
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = defaultMaxIdleConns
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if out.ConnMaxIdleTime <= 0 {
		out.ConnMaxIdleTime = defaultConnMaxIdleTime
	}
	if out.MigrateTimeout <= 0 {
		out.MigrateTimeout = defaultMigrateTimeout
	}
	return out
}

// NewDB connects, verifies connectivity and applies pending migrations.
func NewDB(ctx context.Context, logger *logrus.Logger, cfg *Config) (*DB, error) {
	c := cfg.withDefaults()
	logger.WithFields(logrus.Fields{
		"host":    c.Host,
		"port":    c.Port,
		"db":      c.DBName,
		"user":    c.User,
		"sslmode": c.SSLMode,
	}).Info("connecting to database")

	gormDB, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	logger.WithFields(logrus.Fields{
		"max_open_conns":     c.MaxOpenConns,
		"max_idle_conns":     c.MaxIdleConns,
		"conn_max_lifetime":  c.ConnMaxLifetime.String(),
		"conn_max_idle_time": c.ConnMaxIdleTime.String(),
	}).Info("configured database connection pool")

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	db := &DB{logger: logger, DB: gormDB}

	logger.WithField("timeout", c.MigrateTimeout.String()).Info("applying database migrations")
	migCtx, migCancel := context.WithTimeout(ctx, c.MigrateTimeout)
	defer migCancel()
	if err := NewMigrationsManager(gormDB).ApplyPending(migCtx); err != nil {
		logger.WithError(err).Error("failed to apply database migrations")
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Info("database migrations applied")

	return db, nil
}

func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package postgres provides PostgreSQL database connection setup
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/migrations"
)

func runSQLMigrations(cfg *config.Config, log *zap.Logger) error {
	m, err := migrations.New(cfg.GetMigrationURL(), log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// Open connects to PostgreSQL and applies the pool settings. The schema is
// brought up to date by the versioned SQL migrations when sql_migrations is
// set, otherwise by GORM when auto_migrate is set.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:      logger.Default.LogMode(gormModels.ParseLogLevel(cfg.Database.LogLevel)),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	switch {
	case cfg.Database.SQLMigrations:
		if err := runSQLMigrations(cfg, log); err != nil {
			sqlDB.Close()
			return nil, err
		}
	case cfg.Database.AutoMigrate:
		if err := db.WithContext(ctx).AutoMigrate(gormModels.AllModels()...); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info("Database connection initialized",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.Database.ConnMaxLifetime),
	)
	return db, nil
}

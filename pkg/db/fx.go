package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkugroup/resortops/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OpenParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

// Open builds the shared gorm handle from application config.
func Open(p OpenParam) (*gorm.DB, error) {
	cfg := Config{
		Type:            p.Config.DBType,
		Host:            p.Config.DBHost,
		Port:            p.Config.DBPort,
		Name:            p.Config.DBName,
		User:            p.Config.DBUser,
		Password:        p.Config.DBPassword,
		SSLMode:         p.Config.DBSSLMode,
		Path:            p.Config.DBPath,
		MaxIdleConn:     p.Config.DBMaxIdleConn,
		MaxOpenConn:     p.Config.DBMaxOpenConn,
		ConnMaxLifetime: p.Config.DBConnMaxLifetime,
		ConnMaxIdleTime: p.Config.DBConnMaxIdleTime,
	}

	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	p.Log.Info("database connected", zap.String("type", cfg.Type))
	return gdb, nil
}

// SQLDB exposes the underlying *sql.DB for the migration runner.
func SQLDB(gdb *gorm.DB) (*sql.DB, error) {
	return gdb.DB()
}

func registerHooks(lc fx.Lifecycle, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Provide(SQLDB),
	fx.Invoke(registerHooks),
)

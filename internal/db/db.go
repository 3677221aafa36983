// Package db opens the application database.
package db

import (
	"github.com/smallbiznis/invoicegen/internal/config"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Error)
	}
	return gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormCfg)
}

var Module = fx.Module("db",
	fx.Provide(Open),
)

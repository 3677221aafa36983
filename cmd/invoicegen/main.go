package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/db"
	"github.com/smallbiznis/invoicegen/internal/history"
	"github.com/smallbiznis/invoicegen/internal/identity"
	"github.com/smallbiznis/invoicegen/internal/logger"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"github.com/smallbiznis/invoicegen/internal/render"
	"github.com/smallbiznis/invoicegen/internal/server"
	"github.com/smallbiznis/invoicegen/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			return conn.AutoMigrate(
				&subscriptiondomain.Subscription{},
				&identity.Session{},
				&history.DocumentRecord{},
			)
		}),
		ratelimit.Module,
		identity.Module,
		subscription.Module,
		render.Module,
		history.Module,
		server.Module,
	)
	app.Run()
}

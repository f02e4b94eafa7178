package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/config"
	"github.com/smallbiznis/pestora/internal/consumption"
	"github.com/smallbiznis/pestora/internal/customer"
	"github.com/smallbiznis/pestora/internal/equipment"
	"github.com/smallbiznis/pestora/internal/identity"
	"github.com/smallbiznis/pestora/internal/logger"
	"github.com/smallbiznis/pestora/internal/migration"
	"github.com/smallbiznis/pestora/internal/observability/metrics"
	"github.com/smallbiznis/pestora/internal/product"
	"github.com/smallbiznis/pestora/internal/providers/email"
	"github.com/smallbiznis/pestora/internal/providers/storage"
	"github.com/smallbiznis/pestora/internal/sale"
	"github.com/smallbiznis/pestora/internal/server"
	"github.com/smallbiznis/pestora/internal/visit"
	"github.com/smallbiznis/pestora/internal/warehouse"
	"github.com/smallbiznis/pestora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		metrics.Module,

		// Providers
		identity.Module,
		storage.Module,
		email.Module,

		// Functional domains
		customer.Module,
		product.Module,
		equipment.Module,
		consumption.Module,
		warehouse.Module,
		sale.Module,
		visit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

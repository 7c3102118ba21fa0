package main

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/config"
	"github.com/dkugroup/resortops/internal/invoice"
	"github.com/dkugroup/resortops/internal/logger"
	"github.com/dkugroup/resortops/internal/migration"
	"github.com/dkugroup/resortops/internal/resort"
	"github.com/dkugroup/resortops/internal/revenue"
	"github.com/dkugroup/resortops/internal/server"
	"github.com/dkugroup/resortops/internal/telemetry"
	"github.com/dkugroup/resortops/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		telemetry.Module,
		fx.Provide(NewSnowflakeNode),
		db.Module,
		migration.Module,

		// Functional domains
		resort.Module,
		revenue.Module,
		invoice.Module,

		server.Module,
	)
	app.Run()
}

func NewSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return node, nil
}

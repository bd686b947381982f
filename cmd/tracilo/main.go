package main

import (
	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/logger"
	"github.com/Kon-404/tracilo/internal/migration"
	"github.com/Kon-404/tracilo/internal/server"
	"github.com/Kon-404/tracilo/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

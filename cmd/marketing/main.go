package main

import (
	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/logger"
	"github.com/Kon-404/tracilo/internal/marketing"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		marketing.Module,
	)
	app.Run()
}

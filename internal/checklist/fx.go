package checklist

import (
	"github.com/Kon-404/tracilo/internal/checklist/repository"
	"github.com/Kon-404/tracilo/internal/checklist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checklist.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

package submission

import (
	"github.com/Kon-404/tracilo/internal/submission/repository"
	"github.com/Kon-404/tracilo/internal/submission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("submission.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

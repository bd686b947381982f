package organization

import (
	"github.com/Kon-404/tracilo/internal/organization/repository"
	"github.com/Kon-404/tracilo/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

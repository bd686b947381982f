package invitation

import (
	"github.com/Kon-404/tracilo/internal/invitation/repository"
	"github.com/Kon-404/tracilo/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

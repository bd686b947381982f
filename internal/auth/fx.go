package auth

import (
	"github.com/Kon-404/tracilo/internal/auth/repository"
	"github.com/Kon-404/tracilo/internal/auth/service"
	"github.com/Kon-404/tracilo/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(session.NewManager),
)

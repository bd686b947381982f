package migration

import (
	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.Bootstrap.EnsureDefaultOrgAndUser {
			return seed.EnsureDefaultOrgAndAdmin(conn)
		}
		return nil
	}),
)

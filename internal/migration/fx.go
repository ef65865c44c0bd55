package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/vexaai/vexa/internal/auth/domain"
	"github.com/vexaai/vexa/internal/config"
	"github.com/vexaai/vexa/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	GenID  *snowflake.Node
	Users  authdomain.Repository
	Log    *zap.Logger
}

// Module applies embedded migrations and seeds the bootstrap admin before
// the HTTP server starts serving.
var Module = fx.Module("migrations",
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, p Params) {
	log := p.Log.Named("migrations")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Config.DBType == "postgres" {
				sqlDB, err := p.DB.DB()
				if err != nil {
					return err
				}
				if err := RunMigrations(sqlDB); err != nil {
					return err
				}
				log.Info("migrations applied")
			} else {
				log.Warn("skipping migrations for non-postgres database", zap.String("db_type", p.Config.DBType))
			}

			return seed.EnsureAdmin(ctx, p.DB, p.Config, p.GenID, p.Users, log)
		},
	})
}

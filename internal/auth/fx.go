package auth

import (
	"github.com/vexaai/vexa/internal/auth/repository"
	"github.com/vexaai/vexa/internal/auth/service"
	"github.com/vexaai/vexa/internal/auth/token"
	"github.com/vexaai/vexa/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(provideTokenManager),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

func provideTokenManager(cfg config.Config) (*token.Manager, error) {
	return token.NewManager(cfg.AuthJWTSecret, cfg.AppName)
}

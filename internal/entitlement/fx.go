package entitlement

import (
	"github.com/vexaai/vexa/internal/entitlement/repository"
	"github.com/vexaai/vexa/internal/entitlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package request

import (
	"github.com/vexaai/vexa/internal/request/repository"
	"github.com/vexaai/vexa/internal/request/service"
	"go.uber.org/fx"
)

var Module = fx.Module("request.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package admin

import (
	"github.com/vexaai/vexa/internal/admin/repository"
	"github.com/vexaai/vexa/internal/admin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("admin.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

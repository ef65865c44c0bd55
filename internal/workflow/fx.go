package workflow

import (
	"github.com/vexaai/vexa/internal/workflow/repository"
	"github.com/vexaai/vexa/internal/workflow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workflow.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package payment

import (
	"github.com/vexaai/vexa/internal/config"
	"github.com/vexaai/vexa/internal/payment/domain"
	"github.com/vexaai/vexa/internal/payment/gateway/paystack"
	"github.com/vexaai/vexa/internal/payment/repository"
	"github.com/vexaai/vexa/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(provideGateway),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

func provideGateway(cfg config.Config) domain.Gateway {
	return paystack.New(cfg)
}

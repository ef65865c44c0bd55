package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/admin"
	"github.com/vexaai/vexa/internal/auth"
	"github.com/vexaai/vexa/internal/config"
	"github.com/vexaai/vexa/internal/entitlement"
	"github.com/vexaai/vexa/internal/migration"
	"github.com/vexaai/vexa/internal/observability"
	"github.com/vexaai/vexa/internal/payment"
	"github.com/vexaai/vexa/internal/request"
	"github.com/vexaai/vexa/internal/server"
	"github.com/vexaai/vexa/internal/workflow"
	"github.com/vexaai/vexa/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		auth.Module,
		workflow.Module,
		entitlement.Module,
		payment.Module,
		request.Module,
		admin.Module,

		migration.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

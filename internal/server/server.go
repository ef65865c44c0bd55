package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	admindomain "github.com/vexaai/vexa/internal/admin/domain"
	authdomain "github.com/vexaai/vexa/internal/auth/domain"
	"github.com/vexaai/vexa/internal/config"
	entitlementdomain "github.com/vexaai/vexa/internal/entitlement/domain"
	"github.com/vexaai/vexa/internal/observability"
	obsmiddleware "github.com/vexaai/vexa/internal/observability/logger"
	obsmetrics "github.com/vexaai/vexa/internal/observability/metrics"
	obstracing "github.com/vexaai/vexa/internal/observability/tracing"
	paymentdomain "github.com/vexaai/vexa/internal/payment/domain"
	requestdomain "github.com/vexaai/vexa/internal/request/domain"
	workflowdomain "github.com/vexaai/vexa/internal/workflow/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	authSvc        authdomain.Service
	workflowSvc    workflowdomain.Service
	entitlementSvc entitlementdomain.Service
	paymentSvc     paymentdomain.Service
	requestSvc     requestdomain.Service
	adminSvc       admindomain.Service
	metrics        *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	AuthSvc        authdomain.Service
	WorkflowSvc    workflowdomain.Service
	EntitlementSvc entitlementdomain.Service
	PaymentSvc     paymentdomain.Service
	RequestSvc     requestdomain.Service
	AdminSvc       admindomain.Service
	Metrics        *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		authSvc:        p.AuthSvc,
		workflowSvc:    p.WorkflowSvc,
		entitlementSvc: p.EntitlementSvc,
		paymentSvc:     p.PaymentSvc,
		requestSvc:     p.RequestSvc,
		adminSvc:       p.AdminSvc,
		metrics:        p.Metrics,
	}

	s.registerRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", s.Register)
		auth.POST("/login", s.Login)
		auth.GET("/me", s.AuthRequired(), s.Me)
		auth.POST("/logout", s.AuthRequired(), s.Logout)
	}

	workflows := api.Group("/workflows")
	{
		workflows.GET("", s.ListWorkflows)
		workflows.GET("/:id", s.GetWorkflow)
		workflows.GET("/:id/download", s.AuthRequired(), s.DownloadWorkflow)
	}

	payment := api.Group("/payment")
	{
		payment.POST("/initialize", s.InitializePayment)
		payment.POST("/verify/:reference", s.VerifyPayment)
		payment.POST("/webhook", s.PaymentWebhook)
		payment.POST("/custom-request", s.SubmitCustomRequest)
	}

	admin := api.Group("/admin")
	admin.POST("/login", s.AdminLogin)

	dashboard := admin.Group("", s.AdminRequired())
	{
		dashboard.GET("/stats", s.AdminStats)
		dashboard.GET("/users", s.AdminListUsers)
		dashboard.GET("/requests", s.AdminListRequests)
		dashboard.PATCH("/requests/:id", s.AdminUpdateRequestStatus)
		dashboard.GET("/workflows", s.AdminListWorkflows)
		dashboard.POST("/workflows", s.AdminCreateWorkflow)
		dashboard.GET("/workflows/:id", s.AdminGetWorkflow)
		dashboard.PUT("/workflows/:id", s.AdminUpdateWorkflow)
		dashboard.DELETE("/workflows/:id", s.AdminDeleteWorkflow)
	}
}

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkugroup/resortops/internal/config"
	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type ServerParam struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Engine     *gin.Engine
	ResortSvc  resortdomain.Service
	RevenueSvc revenuedomain.Service
	SharingSvc sharingdomain.Service
	InvoiceSvc invoicedomain.Service
}

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *gin.Engine

	resortSvc  resortdomain.Service
	revenueSvc revenuedomain.Service
	sharingSvc sharingdomain.Service
	invoiceSvc invoicedomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:    p.Config,
		log:    p.Log.Named("http.server"),
		engine: p.Engine,

		resortSvc:  p.ResortSvc,
		revenueSvc: p.RevenueSvc,
		sharingSvc: p.SharingSvc,
		invoiceSvc: p.InvoiceSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	resorts := v1.Group("/resorts")
	resorts.POST("", s.CreateResort)
	resorts.GET("", s.ListResorts)
	resorts.GET("/:id", s.GetResortByID)

	records := v1.Group("/revenue-records")
	records.POST("", s.CreateRevenueRecord)
	records.GET("", s.ListRevenueRecords)
	records.GET("/:id", s.GetRevenueRecordByID)
	records.PUT("/:id", s.UpdateRevenueRecord)
	records.DELETE("/:id", s.DeleteRevenueRecord)

	configs := v1.Group("/sharing-configs")
	configs.POST("", s.CreateSharingConfig)
	configs.GET("", s.ListSharingConfigs)

	invoices := v1.Group("/invoices")
	invoices.POST("", s.GenerateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.POST("/:id/recompute", s.RecomputeInvoice)
	invoices.POST("/:id/advance", s.AdvanceInvoiceStatus)
	invoices.DELETE("/:id", s.DeleteInvoice)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

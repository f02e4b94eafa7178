package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pestora/internal/config"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
	"github.com/smallbiznis/pestora/internal/identity"
	visitdomain "github.com/smallbiznis/pestora/internal/visit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	genID  *snowflake.Node

	identity     identity.Provider
	visitSvc     visitdomain.Service
	equipmentSvc equipmentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	GenID *snowflake.Node

	Identity     identity.Provider
	VisitSvc     visitdomain.Service
	EquipmentSvc equipmentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		genID:        p.GenID,
		identity:     p.Identity,
		visitSvc:     p.VisitSvc,
		equipmentSvc: p.EquipmentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	// -------- Visits --------
	api.GET("/visits/:id", s.GetVisitDetail)
	api.POST("/visits/:id/complete", s.CompleteVisit)

	// -------- Branch equipment --------
	api.GET("/branches/:id/equipment", s.ListBranchEquipment)
	api.POST("/branches/:id/equipment", s.GenerateEquipmentInstances)
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/document/validate"
	"github.com/smallbiznis/invoicegen/internal/history"
	"github.com/smallbiznis/invoicegen/internal/identity"
	"github.com/smallbiznis/invoicegen/internal/logger"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"github.com/smallbiznis/invoicegen/internal/render"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Server composes the request pipeline: rate limit, identity, entitlement,
// validation, action.
type Server struct {
	cfg config.Config
	log *zap.Logger

	limits     ratelimit.Store
	identities identity.Provider
	subSvc     subscriptiondomain.Service
	validator  *validate.Validator
	renderer   render.Renderer
	recorder   *history.Recorder
	clk        clock.Clock
}

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	Limits     ratelimit.Store
	Identities identity.Provider
	SubSvc     subscriptiondomain.Service
	Renderer   render.Renderer
	Recorder   *history.Recorder
	Clk        clock.Clock
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		limits:     p.Limits,
		identities: p.Identities,
		subSvc:     p.SubSvc,
		validator:  validate.New(),
		renderer:   p.Renderer,
		recorder:   p.Recorder,
		clk:        p.Clk,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Log:       s.log,
		SkipPaths: []string{"/healthz"},
	}))

	r.GET("/healthz", s.Healthz)

	// Each endpoint composes the same pipeline: rate limit, identity,
	// entitlement where gated, then the action.
	v1 := r.Group("/v1")
	{
		v1.POST("/documents/render",
			s.RateLimit(subscriptiondomain.OpDocumentsRender, s.cfg.RateLimits.Render),
			s.Identity(),
			s.RenderDocument,
		)
		v1.POST("/documents/validate",
			s.RateLimit(subscriptiondomain.OpDocumentsValidate, s.cfg.RateLimits.Validate),
			s.ValidateDocument,
		)
		v1.GET("/documents",
			s.RateLimit(subscriptiondomain.OpDocumentsList, s.cfg.RateLimits.List),
			s.Identity(),
			s.RequireIdentity(),
			s.RequirePremium(subscriptiondomain.OpDocumentsList),
			s.ListDocuments,
		)

		v1.GET("/subscription",
			s.RateLimit(subscriptiondomain.OpSubscriptionGet, s.cfg.RateLimits.Subscription),
			s.Identity(),
			s.RequireIdentity(),
			s.GetSubscription,
		)
		v1.POST("/subscription/activate",
			s.RateLimit(subscriptiondomain.OpSubscriptionWrite, s.cfg.RateLimits.Subscription),
			s.Identity(),
			s.RequireIdentity(),
			s.ActivateSubscription,
		)
		v1.POST("/subscription/cancel",
			s.RateLimit(subscriptiondomain.OpSubscriptionWrite, s.cfg.RateLimits.Subscription),
			s.Identity(),
			s.RequireIdentity(),
			s.CancelSubscription,
		)
	}

	return r
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

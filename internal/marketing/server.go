// Package marketing serves the brochure site and its contact form.
package marketing

import (
	"context"
	"net/http"
	"time"

	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/providers/email"
	"github.com/Kon-404/tracilo/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("marketing.server",
	email.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewSender),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewSender wraps the configured provider in the contact-form retry policy:
// three attempts with linear backoff.
func NewSender(provider email.Provider) *email.RetryingSender {
	return email.NewRetryingSender(provider, email.RetryPolicy{
		MaxAttempts: 3,
		Backoff:     email.LinearBackoff(500 * time.Millisecond),
	})
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					zap.L().Fatal("http server failed", zap.Error(err))
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
	engine  *gin.Engine
	cfg     config.Config
	sender  *email.RetryingSender
	limiter *ratelimit.TokenBucket
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Sender  *email.RetryingSender
	Limiter *ratelimit.TokenBucket `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		sender:  p.Sender,
		limiter: p.Limiter,
	}

	svc.engine.POST("/contact", svc.rateLimit("contact", 0.2, 5), svc.Contact)
	svc.registerPages()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPages() {
	s.engine.Static("/static", "./public/static")
	for _, page := range []string{"/", "/features", "/pricing", "/about"} {
		s.engine.GET(page, servePage)
	}
}

func servePage(c *gin.Context) {
	c.File("./public/index.html")
}

func (s *Server) rateLimit(name string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		key := "ratelimit:marketing:" + name + ":" + c.ClientIP()
		res, err := s.limiter.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("limiter", name), zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

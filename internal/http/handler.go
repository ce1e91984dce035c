package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	gohttp "net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/common"
	"github.com/hxuan190/relay-router/internal/config"
	"github.com/hxuan190/relay-router/internal/http/httputil"
	"github.com/hxuan190/relay-router/internal/http/middlewares"
	"github.com/hxuan190/relay-router/internal/services"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"

	adminTokenHeader = "X-Admin-Token"
)

type HTTPService struct {
	logger        *services.ServiceLogger
	aggregatorSvc *aggregator.Service
	rateLimiter   *middlewares.RateLimiter
	server        *gohttp.Server
	engine        *gin.Engine
	conf          *config.GeneralConfig
	httpConf      *config.HTTPConfig

	handlers []httputil.IHttpHandler
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewHTTPService(conf *config.GeneralConfig, httpConf *config.HTTPConfig, aggregatorSvc *aggregator.Service) *HTTPService {
	svc := &HTTPService{
		aggregatorSvc: aggregatorSvc,
		rateLimiter:   middlewares.NewRateLimiter(httpConf.RateLimit, httpConf.RateBurst),
		conf:          conf,
		httpConf:      httpConf,
		stopCh:        make(chan struct{}),
	}
	svc.handlers = []httputil.IHttpHandler{
		NewPoolHandler(aggregatorSvc),
		NewQuoteHandler(aggregatorSvc),
		NewSwapHandler(aggregatorSvc),
	}
	svc.logger = services.NewServiceLogger(svc)
	svc.engine = svc.buildEngine()
	svc.server = &gohttp.Server{
		Addr:              conf.HTTPHost + ":" + conf.HTTPPort,
		Handler:           svc.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return svc
}

func (svc *HTTPService) ID() string {
	return HTTP_SERVICE
}

// Handler exposes the routed engine, mainly for tests.
func (svc *HTTPService) Handler() gohttp.Handler {
	return svc.engine
}

func (svc *HTTPService) buildEngine() *gin.Engine {
	if !svc.conf.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestIDMiddleware())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AddAllowHeaders("Authorization", adminTokenHeader, middlewares.RequestIDHeader)
	corsConf.AddExposeHeaders(middlewares.RequestIDHeader)
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	r.Use(svc.rateLimiter.RateLimitMiddleware())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		stats := svc.aggregatorSvc.Stats()
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok", "pools": stats.PoolCount, "version": stats.Version})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	priv := api.Group(API_VERSION)

	admin := api.Group(fmt.Sprintf("%s/admin", API_VERSION))
	admin.Use(svc.adminAuth())

	svc.setupHandlers(pub, priv, admin)
	r.NoRoute(func(c *gin.Context) {
		httputil.NotFound(c, "route not found")
	})
	return r
}

// Start blocks serving HTTP until Stop is called. After Stop it returns at once.
func (svc *HTTPService) Start() error {
	go svc.sweepLimiter()

	svc.logger.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}
	return nil
}

func (svc *HTTPService) Stop() error {
	svc.stopOnce.Do(func() { close(svc.stopCh) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		svc.logger.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	svc.logger.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *HTTPService) sweepLimiter() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-svc.stopCh:
			return
		case <-ticker.C:
			if n := svc.rateLimiter.Sweep(); n > 0 {
				svc.logger.Debug().Int("dropped", n).Msg("rate limiter swept idle clients")
			}
		}
	}
}

// adminAuth rejects every admin call when no token is configured.
func (svc *HTTPService) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		want := svc.httpConf.AdminToken
		if want == "" {
			httputil.Abort(c, common.HTTPErrorForbidden("admin api disabled"))
			return
		}
		got := c.GetHeader(adminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			svc.logger.Warn().
				Str("request_id", middlewares.RequestID(c)).
				Str("ip", c.ClientIP()).
				Str("path", c.FullPath()).
				Msg("rejected admin call")
			httputil.Abort(c, common.HTTPErrorUnauthorized(""))
			return
		}
		c.Next()
	}
}

func (svc *HTTPService) setupHandlers(
	rootPub *gin.RouterGroup,
	rootPriv *gin.RouterGroup,
	rootAdmin *gin.RouterGroup,
) {
	for _, h := range svc.handlers {
		pub := rootPub.Group(h.Root())
		priv := rootPriv.Group(h.Root())
		admin := rootAdmin.Group(h.Root())
		h.SetRoutes(pub, priv, admin)
	}
}

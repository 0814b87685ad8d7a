// Package server assembles the gin engine shared by all HTTP routes.
package server

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/internal/middleware"
	"github.com/delegasi/delegation-manager/internal/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redocMiddleware "github.com/go-openapi/runtime/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GetEngine returns a gin engine with the middleware every route needs as well as the health,
// metrics and documentation routes mounted under basePath.
func GetEngine(logger *slog.Logger, basePath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddExposeHeaders(middleware.CorrelationIDHeader)
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger, path.Join("/", basePath, "health"), path.Join("/", basePath, "metrics")))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	redoc(router, basePath)

	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func health(c *gin.Context) {
	// swagger:route GET /health health
	//
	// Service health
	//
	// responses:
	//   200: Envelope
	handler.Respond(c, http.StatusOK, "Healthy", nil)
}

func redoc(router *gin.RouterGroup, basePath string) {
	router.StaticFile("/swagger.yaml", "./swagger/swagger.yaml")

	redocOpts := redocMiddleware.RedocOpts{
		BasePath: basePath,
		SpecURL:  "./swagger.yaml",
	}
	router.GET("/docs", func(c *gin.Context) {
		redocHandler := redocMiddleware.Redoc(redocOpts, nil)
		redocHandler.ServeHTTP(c.Writer, c.Request)
	})
}

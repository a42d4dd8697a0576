package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lapor-fasilitas/internal/core/auth"
	mdw "lapor-fasilitas/internal/transport/http/middleware"
)

type Options struct {
	Logger      *zap.Logger
	JWT         *auth.JWTer
	CORSOrigins []string
	UploadDir   string
	Modules     []Module
}

// NewAPIEngine assembles the engine: hardening middleware, CORS with
// credentials (the refresh token travels in a cookie), static photo
// hosting, health/metrics, and every registered module's routes.
func NewAPIEngine(o Options) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(o.Logger),
		mdw.Metrics(),
		mdw.AccessLog(o.Logger),
	)

	corsCfg := cors.DefaultConfig()
	if len(o.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = o.CORSOrigins
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsCfg.AllowCredentials = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if o.UploadDir != "" {
		r.Static("/uploads/laporan", o.UploadDir)
	}

	public := r.Group("")
	protected := r.Group("")
	protected.Use(mdw.VerifyToken(o.JWT))

	reg := NewRegistry()
	for _, m := range o.Modules {
		reg.Register(m)
	}
	reg.MountAll(public, protected)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Route tidak ditemukan",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	return r
}

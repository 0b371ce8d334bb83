package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RouteRegistrar は自身のルートをエンジンへ登録するハンドラーです。
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

// RouterConfig は NewRouter の設定です。
type RouterConfig struct {
	// ProfileDir はプロフィール写真を配信するディレクトリです。空の場合は配信しません。
	ProfileDir  string
	ProfilePath string
	Logger      *zap.Logger
}

// NewRouter はミドルウェアとルートを設定した gin.Engine を返します。
func NewRouter(cfg RouterConfig, registrars ...RouteRegistrar) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(requestID(), accessLog(logger), recovery(logger))

	for _, r := range registrars {
		r.RegisterRoutes(router)
	}

	if cfg.ProfileDir != "" && cfg.ProfilePath != "" {
		router.Static(cfg.ProfilePath, cfg.ProfileDir)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternalServerError})
	})
}

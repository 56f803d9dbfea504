package route

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "terminal-terrace/otp-function/docs"
	"terminal-terrace/otp-function/internal/middleware"
	"terminal-terrace/otp-function/internal/otp"
)

func initRoute(r *gin.Engine, lambda *otp.LambdaHandler) {
	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		otp.RegisterRoutes(authGroup, lambda)
	}
}

// SetupRouter 本地调试用的 HTTP 入口，与 Lambda 共用同一个处理器
func SetupRouter(lambda *otp.LambdaHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(log), gin.Recovery())

	// 设置跨域请求，与函数响应头保持一致
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
	}))

	initRoute(r, lambda)

	return r
}

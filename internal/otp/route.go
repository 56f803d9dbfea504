package otp

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey gin.Context 中保存请求 ID 的键
const RequestIDKey = "request_id"

func RegisterRoutes(r *gin.RouterGroup, lambda *LambdaHandler) {
	h := &OTPHandler{
		lambda: lambda,
		log:    lambda.log,
	}
	r.POST("/otp", h.handle)
}

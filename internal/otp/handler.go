package otp

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-terrace/otp-function/packages/response"
)

// invoker 处理一次函数调用，LambdaHandler 实现了它
type invoker interface {
	Handle(ctx context.Context, evt Event) (Output, error)
}

type OTPHandler struct {
	lambda invoker
	log    *zap.Logger
}

// handle 发送验证码
// @Summary 发送验证码
// @Description 生成一次性验证码并发送到指定邮箱
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "发送验证码请求"
// @Success 200 {object} response.Response "发送成功"
// @Failure 400 {object} response.Response "缺少 email"
// @Failure 500 {object} response.Response "配置缺失或投递失败"
// @Router /auth/otp [post]
func (h *OTPHandler) handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		writeOutput(c, errorOutput(response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage(err.Error()),
			response.WithError(err),
		)))
		return
	}

	ctx := c.Request.Context()
	if id := c.GetString(RequestIDKey); id != "" {
		ctx = WithRequestID(ctx, id)
	}

	out, err := h.lambda.Handle(ctx, Event{Body: body})
	if err != nil {
		h.log.Error("handle otp request failed",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err),
		)
		out = errorOutput(response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage(err.Error()),
			response.WithError(err),
		))
	}
	writeOutput(c, out)
}

func writeOutput(c *gin.Context, out Output) {
	for k, v := range out.Headers {
		c.Header(k, v)
	}
	c.Data(out.StatusCode, "application/json; charset=utf-8", []byte(out.Body))
}

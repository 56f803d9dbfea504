package otp

import (
	"github.com/goccy/go-json"
)

// 返回给调用方的固定文案
const (
	MessageSent              = "OTP sent successfully"
	ErrMsgEmailRequired      = "Email is required"
	ErrMsgCredentialsMissing = "Gmail credentials not configured"
	errMsgDeliveryPrefix     = "Failed to send email: "
)

// SendOTPRequest 发送验证码请求，只校验 email 是否存在，不校验格式
type SendOTPRequest struct {
	Email string `json:"email" validate:"required" example:"user@example.com"`
}

// SendOTPResult 发送结果
type SendOTPResult struct {
	Code string
}

// Event 函数入参。body 可能是 JSON 字符串（API Gateway、函数 URL），也可能是直接调用时的对象
type Event struct {
	Body            json.RawMessage `json:"body"`
	IsBase64Encoded bool            `json:"isBase64Encoded,omitempty"`
}

// Output 函数出参，body 为序列化后的 response.Response
type Output struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

package otp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-terrace/otp-function/packages/response"
)

// CORSHeaders 每个响应都带的跨域头，允许任意来源的浏览器读取结果
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
	}
}

// DecodeRequest 解析 Event.Body。字符串先反序列化一次，缺失或 null 视为空对象，
// 字符串内容为 null 则报错
func DecodeRequest(evt Event) (SendOTPRequest, error) {
	var req SendOTPRequest

	raw := bytes.TrimSpace(evt.Body)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return req, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return req, err
		}
		raw = []byte(s)
		if evt.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return req, fmt.Errorf("decode base64 body: %w", err)
			}
			raw = decoded
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			return req, errors.New("request body is empty")
		}
		// 字符串里的 null 不是对象，不能当作空请求
		if bytes.Equal(raw, []byte("null")) {
			return req, errors.New("request body is not a JSON object")
		}
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, err
	}
	return req, nil
}

type ctxKeyRequestID struct{}

// WithRequestID 把请求 ID 放入 context，日志会带上它
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeyRequestID{}).(string); ok && id != "" {
		return id
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

// LambdaHandler 把 Event 映射到 Service，再把结果映射回 Output
type LambdaHandler struct {
	svc *Service
	log *zap.Logger
}

func NewLambdaHandler(svc *Service, log *zap.Logger) *LambdaHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LambdaHandler{svc: svc, log: log}
}

// Handle 处理一次调用。所有错误都体现在 Output 中，返回的 error 恒为 nil
func (h *LambdaHandler) Handle(ctx context.Context, evt Event) (out Output, err error) {
	log := h.log.With(zap.String("request_id", requestIDFrom(ctx)))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling request", zap.Any("panic", r), zap.Stack("stack"))
			out = errorOutput(response.NewBusinessError(
				response.WithErrorCode(response.Fail),
				response.WithErrorMessage(fmt.Sprint(r)),
			))
			err = nil
		}
	}()

	req, decodeErr := DecodeRequest(evt)
	if decodeErr != nil {
		log.Warn("decode request failed", zap.Error(decodeErr))
		return errorOutput(response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage(decodeErr.Error()),
			response.WithError(decodeErr),
		)), nil
	}

	result, bizErr := h.svc.SendOTP(ctx, req)
	if bizErr != nil {
		log.Warn("send otp failed",
			zap.String("email", req.Email),
			zap.Int("status", bizErr.Status()),
			zap.String("error", bizErr.Msg),
		)
		return errorOutput(bizErr), nil
	}

	log.Info("otp sent", zap.String("email", req.Email))
	return newOutput(http.StatusOK, h.svc.Respond(result)), nil
}

func errorOutput(bizErr *response.BusinessError) Output {
	return newOutput(bizErr.Status(), response.ErrorResponse(bizErr))
}

func newOutput(status int, body response.Response) Output {
	encoded, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		encoded = []byte(`{"success":false,"error":"encode response failed"}`)
	}
	return Output{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(encoded),
	}
}

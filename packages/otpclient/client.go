package otpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"terminal-terrace/otp-function/packages/response"
)

// DefaultTimeout 调用函数的默认超时
const DefaultTimeout = 30 * time.Second

// Client 调用验证码函数的客户端，供登录、注册等服务使用
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New 创建客户端，endpoint 为函数 URL 或本地服务的 /api/v1/auth/otp 地址
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result 函数返回的结果，OTP 只有在函数开启回传时才有值
type Result struct {
	Message string
	OTP     string
}

// Error 函数返回的非 200 结果
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("otp function returned %d: %s", e.StatusCode, e.Message)
}

// SendOTP 请求函数向 email 发送验证码
func (c *Client) SendOTP(ctx context.Context, email string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call otp function: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out response.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !out.Success {
		return nil, &Error{StatusCode: resp.StatusCode, Message: out.Error}
	}

	return &Result{Message: out.Message, OTP: out.OTP}, nil
}

package response

import "net/http"

// 业务错误码
const (
	// 未知错误
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 服务端配置缺失
	ConfigurationError ResponseCode = 3
	// 邮件投递失败
	DeliveryError ResponseCode = 4
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Error 返回给调用方的错误信息
func (be *BusinessError) Error() string {
	return be.Msg
}

func (be *BusinessError) Unwrap() error {
	return be.Err
}

// Status 错误码对应的 HTTP 状态码，只有参数错误属于调用方问题
func (be *BusinessError) Status() int {
	if be.Code == InvalidParameter {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

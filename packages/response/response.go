package response

type ResponseCode int

// Response 统一响应体
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OTP     string `json:"otp,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ResponseOptions func(*Response)

func WithMessage(message string) ResponseOptions {
	return func(r *Response) {
		r.Message = message
	}
}

func WithOTP(code string) ResponseOptions {
	return func(r *Response) {
		r.OTP = code
	}
}

func SuccessResponse(opts ...ResponseOptions) Response {
	response := Response{Success: true}
	for _, opt := range opts {
		opt(&response)
	}
	return response
}

func ErrorResponse(err *BusinessError) Response {
	return Response{
		Success: false,
		Error:   err.Msg,
	}
}

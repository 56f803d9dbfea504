package otp

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"terminal-terrace/otp-function/config"
	"terminal-terrace/otp-function/packages/email"
	"terminal-terrace/otp-function/packages/response"
)

// ServiceConfig 验证码服务配置
type ServiceConfig struct {
	CodeLength    int    // 验证码长度
	ExpireMinutes int    // 邮件中声明的有效期，仅展示
	ExposeCode    bool   // 成功响应是否回传验证码
	AppName       string // 邮件中的应用名称
	Subject       string // 邮件主题
}

// Mailer 投递验证码邮件
type Mailer interface {
	SendVerificationCode(ctx context.Context, to string, subject string, data email.VerificationCodeData) error
}

// MailerFactory 按凭证创建 Mailer，每次请求创建一次
type MailerFactory func(cfg *email.Config) Mailer

// NewSMTPMailer 基于 SMTP 的 Mailer
func NewSMTPMailer(cfg *email.Config) Mailer {
	return email.NewClient(cfg)
}

type Service struct {
	cfg       ServiceConfig
	smtp      email.Config
	newMailer MailerFactory
	generate  func(length int) (string, error)
	validate  *validator.Validate
	now       func() time.Time
	log       *zap.Logger
}

// NewService 创建验证码服务。smtp 中的账号密码在每次请求时检查，缺失不影响创建
func NewService(cfg ServiceConfig, smtp email.Config, newMailer MailerFactory, log *zap.Logger) *Service {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if newMailer == nil {
		newMailer = NewSMTPMailer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		smtp:      smtp,
		newMailer: newMailer,
		generate:  GenerateCode,
		validate:  validator.New(),
		now:       time.Now,
		log:       log,
	}
}

// NewServiceFromConfig 从应用配置创建使用 SMTP 投递的服务
func NewServiceFromConfig(conf *config.AppConfig, log *zap.Logger) *Service {
	return NewService(ServiceConfig{
		CodeLength:    conf.OTP.Length,
		ExpireMinutes: conf.OTP.TTL,
		ExposeCode:    conf.OTP.Expose,
		AppName:       conf.Mail.App,
		Subject:       conf.Mail.Subject,
	}, conf.Smtp, NewSMTPMailer, log)
}

// SendOTP 校验请求、生成验证码并通过邮件发送。不重试，失败直接返回
func (s *Service) SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResult, *response.BusinessError) {
	// 1. 校验参数
	if err := s.validate.Struct(req); err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage(ErrMsgEmailRequired),
			response.WithError(err),
		)
	}

	// 2. 生成验证码
	code, err := s.generate(s.cfg.CodeLength)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage(err.Error()),
			response.WithError(err),
		)
	}

	// 3. 检查发件凭证，缺失时不建立任何连接
	if !s.smtp.HasCredentials() {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.ConfigurationError),
			response.WithErrorMessage(ErrMsgCredentialsMissing),
		)
	}

	// 4. 发送验证码邮件
	smtp := s.smtp
	mailer := s.newMailer(&smtp)
	data := email.VerificationCodeData{
		AppName:       s.cfg.AppName,
		Code:          code,
		ExpireMinutes: s.cfg.ExpireMinutes,
		Year:          s.now().Year(),
	}
	s.log.Debug("sending otp mail", zap.String("to", req.Email), zap.String("relay", smtp.Host))
	if err := mailer.SendVerificationCode(ctx, req.Email, s.cfg.Subject, data); err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.DeliveryError),
			response.WithErrorMessage(errMsgDeliveryPrefix+err.Error()),
			response.WithError(err),
		)
	}

	return &SendOTPResult{Code: code}, nil
}

// Respond 成功结果对应的响应体，ExposeCode 关闭时不回传验证码
func (s *Service) Respond(result *SendOTPResult) response.Response {
	opts := []response.ResponseOptions{response.WithMessage(MessageSent)}
	if s.cfg.ExposeCode {
		opts = append(opts, response.WithOTP(result.Code))
	}
	return response.SuccessResponse(opts...)
}

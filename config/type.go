package config

import (
	"time"

	"terminal-terrace/otp-function/packages/email"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Smtp   email.Config `koanf:"smtp"`
	OTP    OTPConfig    `koanf:"otp"`
	Mail   MailConfig   `koanf:"mail"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port" validate:"gte=1,lte=65535"`
	Mode         string        `koanf:"mode" validate:"oneof=debug release test"` // debug, release
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"` // debug, info, warn, error
	Format string `koanf:"format" validate:"oneof=json console"`         // json, console
}

// OTPConfig 验证码配置
type OTPConfig struct {
	Length int  `koanf:"length" validate:"gte=4,lte=10"` // 验证码长度
	TTL    int  `koanf:"ttl" validate:"gte=1"`           // 邮件中声明的有效期（分钟），不做实际校验
	Expose bool `koanf:"expose"`                         // 成功响应中是否回传验证码
}

// MailConfig 邮件内容配置
type MailConfig struct {
	App     string `koanf:"app" validate:"required"`     // 应用名称
	Subject string `koanf:"subject" validate:"required"` // 邮件主题
}

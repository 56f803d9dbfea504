package otp

import (
	"context"
	"sync"

	"terminal-terrace/otp-function/packages/email"
)

type mailCall struct {
	to      string
	subject string
	data    email.VerificationCodeData
}

// fakeMailer 记录调用，可配置返回错误或 panic
type fakeMailer struct {
	mu       sync.Mutex
	err      error
	panicMsg string
	calls    []mailCall
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, to string, subject string, data email.VerificationCodeData) error {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, mailCall{to: to, subject: subject, data: data})
	return m.err
}

// fakeFactory 统计 Mailer 的创建次数，等价于对中继的连接次数
type fakeFactory struct {
	mailer  *fakeMailer
	created int
	configs []email.Config
}

func (f *fakeFactory) New(cfg *email.Config) Mailer {
	f.created++
	f.configs = append(f.configs, *cfg)
	return f.mailer
}

func validSMTP() email.Config {
	return email.Config{
		Host:     "smtp.gmail.com",
		Port:     587,
		Username: "sender@example.com",
		Password: "app-password",
		UseTLS:   true,
	}
}

func testServiceConfig() ServiceConfig {
	return ServiceConfig{
		CodeLength:    6,
		ExpireMinutes: 10,
		ExposeCode:    true,
		AppName:       "rayChatApp",
		Subject:       "Your rayChatApp Verification Code",
	}
}

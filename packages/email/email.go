package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
)

// Config 邮件服务配置
type Config struct {
	Host     string `koanf:"host" validate:"required,hostname|ip"` // SMTP 服务器地址，如 smtp.gmail.com
	Port     int    `koanf:"port" validate:"gte=0,lte=65535"`      // SMTP 端口，587 使用 STARTTLS
	Username string `koanf:"username"`                             // 登录账号，同时作为默认发件人
	Password string `koanf:"password"`                             // 应用专用密码
	From     string `koanf:"from"`                                 // 发件人，如 "rayChatApp <noreply@example.com>"，为空时使用 Username
	UseTLS   bool   `koanf:"tls"`                                  // 是否强制 STARTTLS
}

// HasCredentials 账号和密码是否都已配置
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Sender 发件人地址
func (c *Config) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Client 邮件客户端
type Client struct {
	config *Config
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewClient 创建邮件客户端
func NewClient(config *Config) *Client {
	// 设置默认端口
	if config.Port == 0 {
		config.Port = 587
	}
	dialer := &net.Dialer{}
	return &Client{config: config, dial: dialer.DialContext}
}

// Send 发送邮件
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		return errors.New("sender is empty")
	}
	if len(msg.To) == 0 {
		return errors.New("recipient is empty")
	}
	if msg.Subject == "" {
		return errors.New("subject is empty")
	}

	envelopeFrom, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}

	raw, err := msg.Bytes()
	if err != nil {
		return err
	}

	// 收集所有收件人
	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Cc...)
	recipients = append(recipients, msg.Bcc...)

	var auth smtp.Auth
	if c.config.Username != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	startTLS := c.config.UseTLS || c.config.Port == 587
	return c.deliver(ctx, addr, auth, envelopeFrom.Address, recipients, raw, startTLS)
}

// deliver 完成一次 SMTP 会话：连接、STARTTLS、认证、投递、退出
func (c *Client) deliver(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte, startTLS bool) error {
	conn, err := c.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err = conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("set deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if startTLS {
		if err = client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("rcpt to %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

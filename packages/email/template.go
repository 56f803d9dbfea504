package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template 邮件模板，HTML 与纯文本两份
type Template struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplate 从 HTML 和纯文本字符串创建模板
func NewTemplate(htmlContent, textContent string) (*Template, error) {
	html, err := htmltemplate.New("email.html").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := texttemplate.New("email.txt").Parse(textContent)
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &Template{html: html, text: text}, nil
}

// Render 渲染模板，返回 HTML 正文和纯文本正文
func (t *Template) Render(data any) (string, string, error) {
	var html, text bytes.Buffer
	if err := t.html.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render html template: %w", err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render text template: %w", err)
	}
	return html.String(), text.String(), nil
}

// SendWithTemplate 使用模板发送邮件
func (c *Client) SendWithTemplate(ctx context.Context, to string, subject string, tmpl *Template, data any) error {
	html, text, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	return c.Send(ctx, &Message{
		From:     c.config.Sender(),
		To:       []string{to},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
}

// VerificationCodeTemplate 验证码邮件模板
const VerificationCodeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your OTP Code</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 10px; padding: 40px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
        <div style="text-align: center;">
            <h2 style="color: #333; margin-bottom: 30px;">{{.AppName}} Email Verification</h2>
            <p style="color: #666; font-size: 16px; margin-bottom: 30px;">
                Please use the following OTP to verify your email address:
            </p>
            <h1 style="color: #7D56F4; font-size: 48px; letter-spacing: 8px; margin: 30px 0; padding: 20px; background-color: #f8f9fa; border-radius: 8px; border: 2px dashed #7D56F4;">
                {{.Code}}
            </h1>
            <p style="color: #666; font-size: 14px; margin-top: 30px;">
                This OTP will expire in {{.ExpireMinutes}} minutes.
            </p>
            <p style="color: #999; font-size: 12px; margin-top: 20px;">
                If you didn't request this verification, please ignore this email.
            </p>
            <div style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee;">
                <p style="color: #999; font-size: 12px;">
                    &copy; {{.Year}} {{.AppName}}. All rights reserved.
                </p>
            </div>
        </div>
    </div>
</body>
</html>
`

// VerificationCodeTextTemplate 验证码邮件纯文本模板
const VerificationCodeTextTemplate = `{{.AppName}} Email Verification

Your verification code is: {{.Code}}

This code will expire in {{.ExpireMinutes}} minutes.

If you didn't request this verification, please ignore this email.
`

// VerificationCodeData 验证码模板数据
type VerificationCodeData struct {
	AppName       string // 应用名称，出现在标题和页脚
	Code          string // 验证码
	ExpireMinutes int    // 过期时间（分钟），仅用于展示
	Year          int    // 页脚年份
}

// SendVerificationCode 发送验证码邮件（便捷方法）
func (c *Client) SendVerificationCode(ctx context.Context, to string, subject string, data VerificationCodeData) error {
	tmpl, err := NewTemplate(VerificationCodeTemplate, VerificationCodeTextTemplate)
	if err != nil {
		return err
	}

	return c.SendWithTemplate(ctx, to, subject, tmpl, data)
}

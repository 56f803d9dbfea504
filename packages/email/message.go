package email

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

const (
	contentTypeText = "text/plain; charset=UTF-8"
	contentTypeHTML = "text/html; charset=UTF-8"
)

// Message 邮件消息
type Message struct {
	From     string   // 发件人，如 "rayChatApp <noreply@example.com>"
	To       []string // 收件人列表
	Cc       []string // 抄送列表
	Bcc      []string // 密送列表
	Subject  string   // 邮件主题
	TextBody string   // 纯文本正文
	HTMLBody string   // HTML 正文
	Date     time.Time
}

// Bytes 组装 RFC 5322 邮件。同时有纯文本和 HTML 时生成 multipart/alternative，纯文本在前
func (m *Message) Bytes() ([]byte, error) {
	if m.TextBody == "" && m.HTMLBody == "" {
		return nil, errors.New("message body is empty")
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	from, err := formatAddress(m.From)
	if err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.From, err)
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		writeHeader(&buf, "Cc", strings.Join(m.Cc, ", "))
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")

	if m.TextBody == "" || m.HTMLBody == "" {
		contentType, body := contentTypeText, m.TextBody
		if m.TextBody == "" {
			contentType, body = contentTypeHTML, m.HTMLBody
		}
		writeHeader(&buf, "Content-Type", contentType)
		writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQuotedPrintable(&buf, body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	for _, p := range []struct {
		contentType string
		body        string
	}{
		{contentTypeText, m.TextBody},
		{contentTypeHTML, m.HTMLBody},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if err := writeQuotedPrintable(pw, p.body); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	fmt.Fprintf(buf, "%s: %s\r\n", key, value)
}

func writeQuotedPrintable(w io.Writer, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	return qp.Close()
}

// formatAddress 规范化地址头，显示名按 RFC 2047 编码，没有显示名时只保留地址
func formatAddress(s string) (string, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", err
	}
	if addr.Name == "" {
		return addr.Address, nil
	}
	return addr.String(), nil
}

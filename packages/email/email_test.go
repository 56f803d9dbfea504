package email

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay 最小化的 SMTP 服务端，只支持 EHLO/AUTH/MAIL/RCPT/DATA/QUIT
type fakeRelay struct {
	ln       net.Listener
	authOK   bool
	commands chan string
	messages chan string
}

func newFakeRelay(t *testing.T, authOK bool) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r := &fakeRelay{
		ln:       ln,
		authOK:   authOK,
		commands: make(chan string, 32),
		messages: make(chan string, 1),
	}
	t.Cleanup(func() { ln.Close() })
	go r.serve()
	return r
}

func (r *fakeRelay) port() int {
	return r.ln.Addr().(*net.TCPAddr).Port
}

// received 已收到的命令，在客户端 QUIT 之后调用
func (r *fakeRelay) received() []string {
	var verbs []string
	for {
		select {
		case verb := <-r.commands:
			verbs = append(verbs, verb)
		default:
			return verbs
		}
	}
}

func (r *fakeRelay) serve() {
	conn, err := r.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.relay ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		r.commands <- verb

		switch verb {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250-fake.relay")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case "AUTH":
			if r.authOK {
				_ = tp.PrintfLine("235 2.7.0 Accepted")
			} else {
				_ = tp.PrintfLine("535 5.7.8 Username and Password not accepted")
			}
		case "*":
			_ = tp.PrintfLine("501 5.0.0 aborted")
		case "MAIL", "RCPT":
			_ = tp.PrintfLine("250 2.1.0 OK")
		case "DATA":
			_ = tp.PrintfLine("354 Go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			r.messages <- string(data)
			_ = tp.PrintfLine("250 2.0.0 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 2.0.0 closing")
			return
		default:
			_ = tp.PrintfLine("502 5.5.1 unrecognized command")
		}
	}
}

func testConfig(port int) *Config {
	return &Config{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "sender@example.com",
		Password: "app-password",
	}
}

func TestClient_SendVerificationCode(t *testing.T) {
	relay := newFakeRelay(t, true)
	client := NewClient(testConfig(relay.port()))

	err := client.SendVerificationCode(context.Background(), "user@example.com", "Your rayChatApp Verification Code", VerificationCodeData{
		AppName:       "rayChatApp",
		Code:          "042917",
		ExpireMinutes: 10,
		Year:          2025,
	})
	require.NoError(t, err)

	var raw string
	select {
	case raw = <-relay.messages:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not receive a message")
	}
	assert.Equal(t, []string{"EHLO", "AUTH", "MAIL", "RCPT", "DATA", "QUIT"}, relay.received())

	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "sender@example.com", msg.Header.Get("From"))
	assert.Equal(t, "user@example.com", msg.Header.Get("To"))
	assert.Equal(t, "Your rayChatApp Verification Code", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var types, bodies []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(part)
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
		bodies = append(bodies, string(body))
	}

	require.Len(t, bodies, 2)
	assert.Equal(t, []string{contentTypeText, contentTypeHTML}, types)
	for _, body := range bodies {
		assert.Contains(t, body, "042917")
		assert.Contains(t, body, "10 minutes")
	}
}

func TestClient_Send_AuthFailure(t *testing.T) {
	relay := newFakeRelay(t, false)
	client := NewClient(testConfig(relay.port()))

	err := client.Send(context.Background(), &Message{
		From:     "sender@example.com",
		To:       []string{"user@example.com"},
		Subject:  "subject",
		TextBody: "body",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username and Password not accepted")
	assert.Empty(t, relay.messages)
	assert.NotContains(t, relay.received(), "MAIL")
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	client := NewClient(testConfig(port))
	err = client.Send(context.Background(), &Message{
		From:     "sender@example.com",
		To:       []string{"user@example.com"},
		Subject:  "subject",
		TextBody: "body",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to smtp server")
}

// deadlineConn 记录 SetDeadline 和 Close 调用，可配置 SetDeadline 失败
type deadlineConn struct {
	net.Conn
	err      error
	deadline time.Time
	closed   bool
}

func (c *deadlineConn) SetDeadline(t time.Time) error {
	c.deadline = t
	return c.err
}

func (c *deadlineConn) Close() error {
	c.closed = true
	return c.Conn.Close()
}

func TestClient_Send_SetDeadlineFailure(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	conn := &deadlineConn{Conn: client, err: errors.New("deadline not supported")}

	c := NewClient(testConfig(2525))
	c.dial = func(context.Context, string, string) (net.Conn, error) {
		return conn, nil
	}

	deadline := time.Now().Add(time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	err := c.Send(ctx, &Message{
		From:     "sender@example.com",
		To:       []string{"user@example.com"},
		Subject:  "subject",
		TextBody: "body",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set deadline")
	assert.ErrorIs(t, err, conn.err)
	assert.True(t, deadline.Equal(conn.deadline))
	assert.True(t, conn.closed)
}

func TestClient_Send_InvalidMessage(t *testing.T) {
	client := NewClient(testConfig(2525))

	tests := []struct {
		name   string
		msg    *Message
		errMsg string
	}{
		{
			name:   "发件人为空",
			msg:    &Message{To: []string{"user@example.com"}, Subject: "s", TextBody: "b"},
			errMsg: "sender is empty",
		},
		{
			name:   "收件人为空",
			msg:    &Message{From: "sender@example.com", Subject: "s", TextBody: "b"},
			errMsg: "recipient is empty",
		},
		{
			name:   "主题为空",
			msg:    &Message{From: "sender@example.com", To: []string{"user@example.com"}, TextBody: "b"},
			errMsg: "subject is empty",
		},
		{
			name:   "发件人格式错误",
			msg:    &Message{From: "not an address", To: []string{"user@example.com"}, Subject: "s", TextBody: "b"},
			errMsg: "invalid sender",
		},
		{
			name:   "正文为空",
			msg:    &Message{From: "sender@example.com", To: []string{"user@example.com"}, Subject: "s"},
			errMsg: "message body is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Send(context.Background(), tt.msg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewClient_DefaultPort(t *testing.T) {
	cfg := &Config{Host: "smtp.gmail.com"}
	NewClient(cfg)

	assert.Equal(t, 587, cfg.Port)
}

func TestConfig_Credentials(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantCreds  bool
		wantSender string
	}{
		{name: "账号密码齐全", cfg: Config{Username: "a@example.com", Password: "p"}, wantCreds: true, wantSender: "a@example.com"},
		{name: "缺少密码", cfg: Config{Username: "a@example.com"}, wantCreds: false, wantSender: "a@example.com"},
		{name: "缺少账号", cfg: Config{Password: "p"}, wantCreds: false, wantSender: ""},
		{name: "自定义发件人", cfg: Config{Username: "a@example.com", Password: "p", From: "App <noreply@example.com>"}, wantCreds: true, wantSender: "App <noreply@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCreds, tt.cfg.HasCredentials())
			assert.Equal(t, tt.wantSender, tt.cfg.Sender())
		})
	}
}

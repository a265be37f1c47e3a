package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/love-prep/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewPicksSender(t *testing.T) {
	log := zap.NewNop()

	_, isLog := New(config.SMTPConfig{}, log).(*LogSender)
	assert.True(t, isLog)

	_, isSMTP := New(config.SMTPConfig{Host: "mail.example.com", Port: 587}, log).(*SMTPSender)
	assert.True(t, isSMTP)
}

func TestSMTPSenderSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	fake := func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}
	s := &SMTPSender{
		cfg:  config.SMTPConfig{Host: "mail.example.com", Port: 2525, From: "noreply@example.com"},
		send: fake,
	}

	err := s.Send(context.Background(), Message{To: "nurse@example.com", Subject: "Reset", Body: "line one\nline two"})
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:2525", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"nurse@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(string(gotMsg), "From: noreply@example.com\r\n"))
	assert.Contains(t, string(gotMsg), "Subject: Reset\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\nline one\r\nline two"))
}

func TestSMTPSenderHonoursContext(t *testing.T) {
	s := &SMTPSender{send: func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send called after cancel")
		return nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := &LogSender{log: zap.New(core)}

	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.c", Subject: "Reset", Body: "link"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@b.c", logs.All()[0].ContextMap()["to"])
}

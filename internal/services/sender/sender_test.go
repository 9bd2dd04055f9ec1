package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetFrom() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	written strings.Builder
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type writeCloser struct {
	b *strings.Builder
}

func (w writeCloser) Write(p []byte) (int, error) { return w.b.Write(p) }
func (w writeCloser) Close() error                { return nil }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return writeCloser{b: &m.written}, nil
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func welcomeBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.WelcomeEmail{Email: "alice@x.com", Name: "Alice"})
	require.NoError(t, err)
	return body
}

func TestSenderService_SendWelcomeEmail(t *testing.T) {
	client := new(MockSMTPClient)
	client.On("Mail", "noreply@finalworks.edu").Return(nil).Once()
	client.On("Rcpt", "alice@x.com").Return(nil).Once()
	client.On("Data").Return(nil, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	transport := new(MockTransport)
	transport.On("Connect").Return(client, nil).Once()
	transport.On("GetFrom").Return("noreply@finalworks.edu")

	svc := NewSenderService(transport, discardLogger())
	err := svc.SendWelcomeEmail(welcomeBody(t))

	require.NoError(t, err)
	assert.Contains(t, client.written.String(), "Alice")
	assert.Contains(t, client.written.String(), "Subject: ")
	client.AssertExpectations(t)
	transport.AssertExpectations(t)
}

func TestSenderService_SendWelcomeEmail_BadPayload(t *testing.T) {
	svc := NewSenderService(new(MockTransport), discardLogger())
	err := svc.SendWelcomeEmail([]byte("not json"))
	assert.Error(t, err)
}

func TestSenderService_SendWelcomeEmail_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Connect").Return(nil, errors.New("dial tcp: refused")).Once()
	transport.On("GetFrom").Return("noreply@finalworks.edu")

	svc := NewSenderService(transport, discardLogger())
	err := svc.SendWelcomeEmail(welcomeBody(t))

	// Ошибка возвращается, чтобы сообщение вернулось в очередь.
	assert.Error(t, err)
	transport.AssertExpectations(t)
}

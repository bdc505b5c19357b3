package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/config"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"(47) 99999-1234", "5547999991234", true},
		{"47 3333-1234", "554733331234", true},
		{"5547999991234", "5547999991234", true},
		{"+55 47 99999-1234", "5547999991234", true},
		{"999-1234", "", false},
		{"", "", false},
		{"1147999991234", "", false},
	}
	for _, tc := range cases {
		out, ok := NormalizePhone(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.out, out, tc.in)
	}
}

func TestSend(t *testing.T) {
	var received message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer relay-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.WhatsAppConfig{URL: server.URL, Token: "relay-token"}, zap.NewNop())

	err := client.Send(context.Background(), "(47) 99999-1234", "Nova pendência ID-00080")
	require.NoError(t, err)
	assert.Equal(t, "5547999991234", received.Phone)
	assert.Equal(t, "Nova pendência ID-00080", received.Message)
}

func TestSendRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(config.WhatsAppConfig{URL: server.URL}, zap.NewNop())
	err := client.Send(context.Background(), "47999991234", "oi")
	require.Error(t, err)
}

func TestSendDisabledIsNoop(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{}, zap.NewNop())
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Send(context.Background(), "47999991234", "oi"))
}

package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/infrastructure/notify"
)

func newClient(url, key string) *notify.ResendClient {
	return notify.NewResendClient(config.NotifyConfig{
		APIKey:      key,
		BaseURL:     url,
		ConnTimeout: 5 * time.Second,
	})
}

func TestResendClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "evt_1-customer", r.Header.Get("Idempotency-Key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "shop@example.com", body["from"])
		assert.Equal(t, []any{"jane@example.com"}, body["to"])
		assert.Equal(t, "Hello", body["subject"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer server.Close()

	id, err := newClient(server.URL, "re_test").Send(context.Background(), application.Message{
		From:           "shop@example.com",
		To:             []string{"jane@example.com"},
		Subject:        "Hello",
		HTML:           "<p>hi</p>",
		IdempotencyKey: "evt_1-customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
}

func TestResendClient_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, "re_test").Send(context.Background(), application.Message{
		From: "shop@example.com",
		To:   []string{"not-an-email"},
	})
	require.Error(t, err)

	providerErr, ok := notify.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "validation_error", providerErr.Name)
	assert.Equal(t, http.StatusUnprocessableEntity, providerErr.StatusCode)
}

func TestResendClient_UnstructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, "re_test").Send(context.Background(), application.Message{From: "a@b.c"})
	require.Error(t, err)
	_, ok := notify.IsProviderError(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "502")
}

func TestResendClient_MissingSettings(t *testing.T) {
	_, err := newClient("http://unused", "").Send(context.Background(), application.Message{From: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = newClient("http://unused", "re_test").Send(context.Background(), application.Message{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

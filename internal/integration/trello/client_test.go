package trello

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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.TrelloConfig{
		BaseURL: server.URL,
		Key:     "test-key",
		Token:   "test-token",
	}, zap.NewNop())
}

func TestCreateCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cards", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "list-1", r.URL.Query().Get("idList"))
		assert.Equal(t, "ID-00080 - Padaria Central", r.URL.Query().Get("name"))

		_ = json.NewEncoder(w).Encode(Card{ID: "abc123", ShortURL: "https://trello.com/c/abc123"})
	})

	card, err := client.CreateCard(context.Background(), "list-1", "ID-00080 - Padaria Central", "Descrição")
	require.NoError(t, err)
	assert.Equal(t, "abc123", card.ID)
	assert.Equal(t, "https://trello.com/c/abc123", card.ShortURL)
}

func TestBoardsFiltersOpen(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/org-1/boards", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("filter"))
		_ = json.NewEncoder(w).Encode([]Board{{ID: "b1", Name: "Suporte"}})
	})

	boards, err := client.Boards(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Suporte", boards[0].Name)
}

func TestErrorStatusIsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})

	_, err := client.Organizations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trello")
}

func TestExtractCardID(t *testing.T) {
	cases := []struct {
		link string
		id   string
		ok   bool
	}{
		{"https://trello.com/c/abc123/80-id-00080", "abc123", true},
		{"https://trello.com/c/abc123", "abc123", true},
		{"abc123", "abc123", true},
		{"  abc123  ", "abc123", true},
		{"https://example.com/abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		id, ok := ExtractCardID(tc.link)
		assert.Equal(t, tc.ok, ok, tc.link)
		assert.Equal(t, tc.id, id, tc.link)
	}
}

// Package whatsapp posts messages to the WhatsApp relay used by the
// support team.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/config"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// Client posts {phone, message} payloads to the relay.
type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.WhatsAppConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		token:  cfg.Token,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Enabled reports whether a relay endpoint is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

type message struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send delivers one message. The phone is normalized to the 55-prefixed
// digits-only form the relay expects.
func (c *Client) Send(ctx context.Context, phone, text string) error {
	if !c.Enabled() {
		return nil
	}
	normalized, ok := NormalizePhone(phone)
	if !ok {
		return util.NewValidationError("telefone inválido", map[string]any{"phone": phone})
	}

	body, err := json.Marshal(message{Phone: normalized, Message: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return util.NewUpstreamError("whatsapp", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("whatsapp relay rejected message", zap.Int("status", resp.StatusCode))
		return util.NewUpstreamError("whatsapp", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

// NormalizePhone strips formatting and prefixes the Brazilian country
// code for 10 and 11 digit numbers. Anything shorter is rejected.
func NormalizePhone(phone string) (string, bool) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	switch {
	case len(normalized) == 10 || len(normalized) == 11:
		return "55" + normalized, true
	case len(normalized) == 12 || len(normalized) == 13:
		if strings.HasPrefix(normalized, "55") {
			return normalized, true
		}
		return "", false
	default:
		return "", false
	}
}

// Package trello is a minimal client for the pieces of the Trello REST
// API the service uses: walking organization/board/list trees and
// creating cards for pendências.
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/config"
	"github.com/cs-pendencias/pendencia-service/pkg/util"
)

// Client calls the Trello REST API.
type Client struct {
	baseURL string
	key     string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.TrelloConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.Key,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Organization is a Trello workspace.
type Organization struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Board is a Trello board.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// List is a column on a board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Card is a Trello card. List and Board are only populated by GetCard,
// which requests the nested resources.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	ShortURL string `json:"shortUrl"`
	URL      string `json:"url"`
	IDList   string `json:"idList"`
	List     *List  `json:"list,omitempty"`
	Board    *Board `json:"board,omitempty"`
}

// Organizations lists workspaces visible to the token.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.get(ctx, "/members/me/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Boards lists open boards of a workspace.
func (c *Client) Boards(ctx context.Context, organizationID string) ([]Board, error) {
	var boards []Board
	if err := c.get(ctx, "/organizations/"+url.PathEscape(organizationID)+"/boards", url.Values{"filter": {"open"}}, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// Lists returns the columns of a board.
func (c *Client) Lists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	if err := c.get(ctx, "/boards/"+url.PathEscape(boardID)+"/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateCard adds a card to a list.
func (c *Client) CreateCard(ctx context.Context, listID, name, desc string) (*Card, error) {
	params := url.Values{
		"idList": {listID},
		"name":   {name},
		"desc":   {desc},
		"pos":    {"top"},
	}
	var card Card
	if err := c.do(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCard fetches a card by id or short id, including the names of the
// list and board it sits on.
func (c *Client) GetCard(ctx context.Context, cardID string) (*Card, error) {
	params := url.Values{
		"list":         {"true"},
		"list_fields":  {"name"},
		"board":        {"true"},
		"board_fields": {"name"},
	}
	var card Card
	if err := c.get(ctx, "/cards/"+url.PathEscape(cardID), params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

var cardLinkPattern = regexp.MustCompile(`trello\.com/c/([A-Za-z0-9]+)`)

// ExtractCardID pulls the short card id out of a trello.com/c/... link.
// A bare id is returned as-is.
func ExtractCardID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	if match := cardLinkPattern.FindStringSubmatch(link); match != nil {
		return match[1], true
	}
	if !strings.Contains(link, "/") && !strings.Contains(link, " ") {
		return link, true
	}
	return "", false
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, params, dest)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, dest any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.key)
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return util.NewUpstreamError("trello", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("trello request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return util.NewUpstreamError("trello", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

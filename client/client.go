// Package client is a typed Go client for the SwiftServe API together with
// the local state containers a dashboard or kitchen display keeps in sync.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ray-remotestate/swiftserve/analytics"
	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/kitchen"
	"github.com/ray-remotestate/swiftserve/models"
)

const defaultTimeout = 30 * time.Second

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("swiftserve api %d: %s", e.Status, e.Detail)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Detail == "" {
			e.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type Health struct {
	Status   string `json:"status"`
	Service  string `json:"service,omitempty"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthCheck never fails; an unreachable server reports status "offline".
func (c *Client) HealthCheck(ctx context.Context) Health {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return Health{Status: "offline", Error: err.Error()}
	}
	return h
}

func (c *Client) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := c.do(ctx, http.MethodGet, "/api/menu", nil, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/api/menu/categories", nil, &out)
	return out, err
}

func (c *Client) CreateMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	var out models.MenuItem
	err := c.do(ctx, http.MethodPost, "/api/menu", in, &out)
	return out, err
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, in models.MenuItemInput) (models.MenuItem, error) {
	var out models.MenuItem
	err := c.do(ctx, http.MethodPut, "/api/menu/"+url.PathEscape(id), in, &out)
	return out, err
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ToggleAvailability(ctx context.Context, id string) (models.MenuItem, error) {
	var out models.MenuItem
	err := c.do(ctx, http.MethodPost, "/api/menu/"+url.PathEscape(id)+"/toggle", nil, &out)
	return out, err
}

// BulkUpdatePrices returns how many items changed.
func (c *Client) BulkUpdatePrices(ctx context.Context, percentage float64) (int, error) {
	var out struct {
		Updated int `json:"updated"`
	}
	err := c.do(ctx, http.MethodPost, "/api/menu/bulk-price", map[string]float64{"percentage": percentage}, &out)
	return out.Updated, err
}

func (c *Client) Orders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Table != 0 {
		q.Set("table", strconv.Itoa(filter.Table))
	}
	if filter.Active {
		q.Set("active", "true")
	}
	path := "/api/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Order
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", in, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id), map[string]models.OrderStatus{"status": status}, &out)
	return out, err
}

func (c *Client) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	var out []models.StatusChange
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id)+"/history", nil, &out)
	return out, err
}

func (c *Client) Settings(ctx context.Context) (models.RestaurantSettings, error) {
	var out models.RestaurantSettings
	err := c.do(ctx, http.MethodGet, "/api/settings", nil, &out)
	return out, err
}

func (c *Client) UpdateSettings(ctx context.Context, in models.RestaurantSettings) (models.RestaurantSettings, error) {
	var out models.RestaurantSettings
	err := c.do(ctx, http.MethodPut, "/api/settings", in, &out)
	return out, err
}

// Kitchen fetches the kitchen board; table 0 means every table.
func (c *Client) Kitchen(ctx context.Context, table int) (kitchen.Board, error) {
	path := "/api/kitchen"
	if table != 0 {
		path += "?table=" + strconv.Itoa(table)
	}
	var out kitchen.Board
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Analytics(ctx context.Context, r analytics.Range) (analytics.Summary, error) {
	var out analytics.Summary
	err := c.do(ctx, http.MethodGet, "/api/analytics?range="+url.QueryEscape(string(r)), nil, &out)
	return out, err
}

func (c *Client) Customize(ctx context.Context, text string) (string, error) {
	var out struct {
		KitchenInstruction string `json:"kitchen_instruction"`
	}
	err := c.do(ctx, http.MethodPost, "/api/ai/customize", map[string]string{"custom_text": text}, &out)
	return out.KitchenInstruction, err
}

func (c *Client) SuggestAction(ctx context.Context, orderID string) (string, error) {
	var out struct {
		Suggestion string `json:"suggestion"`
	}
	err := c.do(ctx, http.MethodPost, "/api/ai/suggest_action", map[string]string{"order_id": orderID}, &out)
	return out.Suggestion, err
}

// MenuRecommendations asks the server to pick from items, or from its own
// menu when items is empty.
func (c *Client) MenuRecommendations(ctx context.Context, items []models.MenuItem) ([]string, error) {
	var out struct {
		Recommendations []string `json:"recommendations"`
	}
	body := map[string][]models.MenuItem{}
	if len(items) > 0 {
		body["menu_items"] = items
	}
	err := c.do(ctx, http.MethodPost, "/api/ai/menu-recommendations", body, &out)
	return out.Recommendations, err
}

func (c *Client) Features(ctx context.Context) (assistant.Features, error) {
	var out assistant.Features
	err := c.do(ctx, http.MethodGet, "/api/features", nil, &out)
	return out, err
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	Role        models.Role `json:"role"`
	ExpiresIn   int         `json:"expires_in"`
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, role models.Role, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"role": string(role), "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

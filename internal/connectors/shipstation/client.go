package shipstation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"picklist/internal"
	"picklist/internal/config"
)

const maxAttempts = 5

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type ordersPayload struct {
	Orders []internal.RawOrder `json:"orders"`
	Total  int                 `json:"total"`
	Page   int                 `json:"page"`
	Pages  int                 `json:"pages"`
}

// refreshPayload carries success as either a JSON bool or the string "true".
type refreshPayload struct {
	Success json.RawMessage `json:"success"`
	Message string          `json:"message"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ShipStationTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.ShipStationRateRPS),
	}
}

func (c *Client) RefreshStore(ctx context.Context, storeID string) error {
	body, err := c.do(ctx, http.MethodPost, "stores/refreshstore", map[string]string{"storeId": storeID})
	if err != nil {
		return err
	}

	var payload refreshPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if !isTrue(payload.Success) {
		return fmt.Errorf("shipstation refresh of store %s failed: %s", storeID, payload.Message)
	}
	return nil
}

// FetchOrders returns every order of the store in the given status, newest
// first, following pagination to the last page.
func (c *Client) FetchOrders(ctx context.Context, storeID string, status internal.OrderStatus) ([]internal.RawOrder, error) {
	all := make([]internal.RawOrder, 0)
	for page := 1; ; page++ {
		body, err := c.do(ctx, http.MethodGet, "orders", map[string]string{
			"orderStatus": string(status),
			"storeId":     storeID,
			"sortBy":      "OrderDate",
			"sortDir":     "DESC",
			"pageSize":    strconv.Itoa(c.cfg.ShipStationPageSize),
			"page":        strconv.Itoa(page),
		})
		if err != nil {
			return nil, err
		}

		var payload ordersPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode orders page %d: %w", page, err)
		}
		all = append(all, payload.Orders...)

		if payload.Pages <= page || len(payload.Orders) == 0 {
			break
		}
	}
	return all, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.ShipStationAPIKey) == "" {
		return nil, errors.New("missing SHIPSTATION_API_KEY")
	}
	if strings.TrimSpace(c.cfg.ShipStationSecret) == "" {
		return nil, errors.New("missing SHIPSTATION_API_SECRET")
	}

	baseURL := strings.TrimRight(c.cfg.ShipStationBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.ShipStationAPIKey, c.cfg.ShipStationSecret)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				if err := sleep(ctx, backoff); err != nil {
					return nil, err
				}
				lastErr = fmt.Errorf("shipstation status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("shipstation api error: status=%d body=%s", resp.StatusCode, string(body))
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("shipstation request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func isTrue(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}

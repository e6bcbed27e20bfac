// Package paymentprovider реализует REST-клиент PayPal Orders v2:
// получение OAuth2 токена, создание заказа и capture после одобрения.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	clientID   string
	secretKey  string
	apiURL     string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient создаёт новый клиент PayPal. apiURL указывает на sandbox
// или live окружение, например https://api-m.sandbox.paypal.com.
func NewClient(clientID, secretKey, apiURL string) *Client {
	return &Client{
		clientID:   clientID,
		secretKey:  secretKey,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// getAccessToken возвращает закешированный OAuth2 токен или запрашивает новый
// по client credentials, если срок прежнего истёк.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	const op = "paymentprovider.getAccessToken"

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/oauth2/token", body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.clientID, c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	c.accessToken = tokenResp.AccessToken
	// Минута запаса до фактического истечения токена
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", uuid.NewString())
	return req, nil
}

// CreateOrder отправляет запрос на создание заказа с intent CAPTURE.
func (c *Client) CreateOrder(ctx context.Context, reqParams CreateOrderRequest) (*Order, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/v2/checkout/orders", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder выполняет capture заказа после одобрения плательщиком.
// Возвращает разобранный статус вместе с сырым телом ответа.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result CaptureResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	result.Raw = raw
	return &result, nil
}

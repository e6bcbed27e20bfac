package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			tokenCalls.Add(1)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
			return
		}
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("PayPal-Request-Id"))
		handler(w, r)
	}))
}

func TestClient_CreateOrder(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/checkout/orders", r.URL.Path)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CAPTURE", req.Intent)
		require.Len(t, req.PurchaseUnits, 1)
		assert.Equal(t, "50", req.PurchaseUnits[0].Amount.Value)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{
			ID:     "order-1",
			Status: "CREATED",
			Links: []Link{
				{Href: "https://provider.example/approve", Rel: "approve", Method: "GET"},
			},
		})
	})
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL)

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			Amount: Amount{CurrencyCode: "USD", Value: "50"},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	require.Len(t, order.Links, 1)
	assert.Equal(t, "approve", order.Links[0].Rel)
}

func TestClient_CaptureOrder(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/checkout/orders/order-1/capture", r.URL.Path)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"order-1","status":"COMPLETED","payer":{"email_address":"ivan@example.com"}}`))
	})
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL)

	result, err := client.CaptureOrder(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", result.ID)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Contains(t, string(result.Raw), "ivan@example.com")
}

func TestClient_TokenCached(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"order-1","status":"COMPLETED"}`))
	})
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL)

	_, err := client.CaptureOrder(context.Background(), "order-1")
	require.NoError(t, err)
	_, err = client.CaptureOrder(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestClient_CaptureOrder_ErrorStatus(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"ORDER_NOT_APPROVED"}`))
	})
	defer srv.Close()

	client := NewClient("client-id", "client-secret", srv.URL)

	_, err := client.CaptureOrder(context.Background(), "order-1")
	assert.Error(t, err)
}

package tests

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end tests against a running server. They are skipped unless
// GO_COMMERCE_URL is set, e.g.:
//
//	GO_COMMERCE_URL=http://localhost:8080 go test ./tests/
func baseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("GO_COMMERCE_URL")
	if url == "" {
		t.Skip("GO_COMMERCE_URL not set, skipping integration tests")
	}
	return url
}

func newClient(t *testing.T) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL(t)).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type productResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
}

type purchaseResponse struct {
	Purchase struct {
		ID          string          `json:"id"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Items       []struct {
			ProductID string          `json:"product_id"`
			Quantity  int             `json:"quantity"`
			Subtotal  decimal.Decimal `json:"subtotal"`
		} `json:"items"`
	} `json:"purchase"`
}

func registerClient(t *testing.T, client *resty.Client) (string, *authResponse) {
	t.Helper()

	email := fmt.Sprintf("it-%s@test.com", uuid.New().String())
	var out authResponse
	resp, err := client.R().
		SetBody(map[string]string{
			"name":     "Integration Tester",
			"email":    email,
			"password": "cliente123",
		}).
		SetResult(&out).
		Post("/api/auth/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	require.NotEmpty(t, out.Token)
	return email, &out
}

func adminToken(t *testing.T, client *resty.Client) string {
	t.Helper()

	var out authResponse
	resp, err := client.R().
		SetBody(map[string]string{"email": "admin@test.com", "password": "admin123"}).
		SetResult(&out).
		Post("/api/auth/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), "seed admin must exist, run cmd/setup first")
	return out.Token
}

func createProduct(t *testing.T, client *resty.Client, token string, price string, quantity int) *productResponse {
	t.Helper()

	var out struct {
		Product productResponse `json:"product"`
	}
	resp, err := client.R().
		SetAuthToken(token).
		SetBody(map[string]any{
			"sku":                "IT-" + uuid.New().String(),
			"name":               "Integration Product",
			"price":              price,
			"quantity_available": quantity,
		}).
		SetResult(&out).
		Post("/api/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	t.Cleanup(func() {
		client.R().SetAuthToken(token).Delete("/api/products/" + out.Product.ID)
	})
	return &out.Product
}

func getProduct(t *testing.T, client *resty.Client, id string) *productResponse {
	t.Helper()

	var out productResponse
	resp, err := client.R().SetResult(&out).Get("/api/products/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	return &out
}

func TestHealth(t *testing.T) {
	client := newClient(t)

	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client := newClient(t)

	resp, err := client.R().
		SetBody(map[string]string{"email": "admin@test.com", "password": "wrong"}).
		Post("/api/auth/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestCheckoutFlow(t *testing.T) {
	client := newClient(t)
	admin := adminToken(t, client)
	_, buyer := registerClient(t, client)

	product := createProduct(t, client, admin, "25.50", 50)

	var out purchaseResponse
	resp, err := client.R().
		SetAuthToken(buyer.Token).
		SetBody(map[string]any{
			"items": []map[string]any{
				{"product_id": product.ID, "quantity": 2},
			},
		}).
		SetResult(&out).
		Post("/api/purchases")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	assert.True(t, out.Purchase.TotalAmount.Equal(decimal.RequireFromString("51.00")),
		"total was %s", out.Purchase.TotalAmount)
	require.Len(t, out.Purchase.Items, 1)
	assert.Equal(t, 2, out.Purchase.Items[0].Quantity)

	after := getProduct(t, client, product.ID)
	assert.Equal(t, 48, after.QuantityAvailable)

	// The purchase shows up in the buyer's history.
	var history []map[string]any
	resp, err = client.R().
		SetAuthToken(buyer.Token).
		SetResult(&history).
		Get("/api/purchases/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	found := false
	for _, p := range history {
		if p["id"] == out.Purchase.ID {
			found = true
		}
	}
	assert.True(t, found, "purchase %s missing from history", out.Purchase.ID)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	client := newClient(t)
	admin := adminToken(t, client)
	_, buyer := registerClient(t, client)

	product := createProduct(t, client, admin, "10.00", 3)

	resp, err := client.R().
		SetAuthToken(buyer.Token).
		SetBody(map[string]any{
			"items": []map[string]any{
				{"product_id": product.ID, "quantity": 1000},
			},
		}).
		Post("/api/purchases")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())

	// A rejected purchase must leave the stock untouched.
	after := getProduct(t, client, product.ID)
	assert.Equal(t, 3, after.QuantityAvailable)
}

func TestCheckout_RequiresToken(t *testing.T) {
	client := newClient(t)

	resp, err := client.R().
		SetBody(map[string]any{
			"items": []map[string]any{
				{"product_id": uuid.New().String(), "quantity": 1},
			},
		}).
		Post("/api/purchases")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestProductCreate_RequiresAdmin(t *testing.T) {
	client := newClient(t)
	_, buyer := registerClient(t, client)

	resp, err := client.R().
		SetAuthToken(buyer.Token).
		SetBody(map[string]any{
			"sku":                "IT-" + uuid.New().String(),
			"name":               "Forbidden Product",
			"price":              "1.00",
			"quantity_available": 1,
		}).
		Post("/api/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
}

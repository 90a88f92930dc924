package woo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tillsync/internal/backend"
	"tillsync/internal/domain"
)

func testBackend(t *testing.T, handler http.Handler) (*Backend, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	b := New(domain.StoreConfig{
		SiteURL:        srv.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Currency:       "GBP",
	})
	return b, srv
}

func TestClientSendsBasicAuthAndAPIPath(t *testing.T) {
	var gotPath, gotUser, gotPass string
	b, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		json.NewEncoder(w).Encode([]taxRateDTO{})
	}))

	if _, err := b.FetchTaxRates(context.Background()); err != nil {
		t.Fatalf("FetchTaxRates: %v", err)
	}
	if gotPath != "/wp-json/wc/v3/taxes" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUser != "ck_test" || gotPass != "cs_test" {
		t.Fatalf("credentials must travel as basic auth, got %q/%q", gotUser, gotPass)
	}
}

func TestFetchProductsResolvesVariations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wc/v3/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "publish" {
			t.Errorf("catalog fetch must filter to published products")
		}
		json.NewEncoder(w).Encode([]productDTO{
			{ID: 1, Name: "Mug", Price: "8.00"},
			{ID: 2, Name: "T-Shirt", Type: "variable", Price: "19.99", Variations: []int64{101}},
		})
	})
	mux.HandleFunc("/wp-json/wc/v3/products/2/variations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]variationDTO{
			{ID: 101, Price: "19.99", Attributes: []attributeDTO{{Name: "Size", Option: "L"}}},
		})
	})
	b, _ := testBackend(t, mux)

	products, err := b.FetchProducts(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if len(products[0].Variants) != 0 {
		t.Fatalf("simple products must not trigger variation fetches")
	}
	if len(products[1].Variants) != 1 || products[1].Variants[0].Name != "L" {
		t.Fatalf("unexpected variants %+v", products[1].Variants)
	}
	if products[1].Price.Currency != "GBP" {
		t.Fatalf("prices must carry the configured currency")
	}
}

func TestValidateConnectionMapsHTTPErrors(t *testing.T) {
	cases := []struct {
		code int
		want backend.ConnectionState
	}{
		{http.StatusUnauthorized, backend.StateInvalidCredentials},
		{http.StatusForbidden, backend.StateInvalidCredentials},
		{http.StatusNotFound, backend.StateStoreNotFound},
		{http.StatusInternalServerError, backend.StateNetworkError},
	}
	for _, tc := range cases {
		b, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.code)
		}))
		status := b.ValidateConnection(context.Background())
		if status.State != tc.want {
			t.Fatalf("HTTP %d: got %s, want %s", tc.code, status.State, tc.want)
		}
	}
}

func TestValidateConnectionReadsStoreName(t *testing.T) {
	b, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/system_status" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"settings": map[string]any{"store_name": "Corner Shop"},
		})
	}))

	status := b.ValidateConnection(context.Background())
	if status.State != backend.StateConnected || status.StoreName != "Corner Shop" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestFetchStoreCurrencyDefaultsToUSD(t *testing.T) {
	b, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(settingDTO{Value: ""})
	}))
	currency, err := b.FetchStoreCurrency(context.Background())
	if err != nil {
		t.Fatalf("FetchStoreCurrency: %v", err)
	}
	if currency != "USD" {
		t.Fatalf("blank setting must default to USD, got %q", currency)
	}
}

func TestCreateOrderMapsResponse(t *testing.T) {
	b, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/wp-json/wc/v3/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var got createOrderDTO
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode order payload: %v", err)
		}
		json.NewEncoder(w).Encode(orderDTO{ID: 900, Number: "900", Status: "processing", Total: "10.00"})
	}))

	order, err := b.CreateOrder(context.Background(), domain.OrderDraft{
		LineItems:      []domain.LineItem{{ProductID: 1, Quantity: 1}},
		PaymentMethod:  domain.PaymentCash,
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.RemoteID != 900 || order.Number != "900" {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Total.AmountCents != 1000 || order.Total.Currency != "GBP" {
		t.Fatalf("unexpected total %+v", order.Total)
	}
}

package woo

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
	"time"
)

const apiPath = "/wp-json/wc/v3/"

// httpError carries the status code of a non-2xx response so the backend can
// distinguish bad credentials from a missing store or a flaky network.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("woocommerce: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("woocommerce: HTTP %d", e.StatusCode)
}

// client is the thin HTTP layer over the WooCommerce REST API v3. Methods
// return wire DTOs; mapping to domain types happens in the backend.
type client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	http           *http.Client
}

func newClient(siteURL, consumerKey, consumerSecret string) *client {
	return &client{
		baseURL:        strings.TrimRight(siteURL, "/") + apiPath,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		http:           &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) products(ctx context.Context, page, perPage int) ([]productDTO, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("status", "publish")
	params.Set("orderby", "title")
	params.Set("order", "asc")
	var out []productDTO
	return out, c.get(ctx, "products", params, &out)
}

func (c *client) productsSince(ctx context.Context, modifiedAfter string) ([]productDTO, error) {
	params := url.Values{}
	params.Set("modified_after", modifiedAfter)
	params.Set("per_page", "100")
	var out []productDTO
	return out, c.get(ctx, "products", params, &out)
}

func (c *client) product(ctx context.Context, id int64) (productDTO, error) {
	var out productDTO
	return out, c.get(ctx, "products/"+strconv.FormatInt(id, 10), nil, &out)
}

func (c *client) productVariations(ctx context.Context, productID int64) ([]variationDTO, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	var out []variationDTO
	return out, c.get(ctx, "products/"+strconv.FormatInt(productID, 10)+"/variations", params, &out)
}

func (c *client) updateProductStock(ctx context.Context, productID int64, quantity int) (productDTO, error) {
	body := map[string]int{"stock_quantity": quantity}
	var out productDTO
	return out, c.send(ctx, http.MethodPut, "products/"+strconv.FormatInt(productID, 10), body, &out)
}

func (c *client) createOrder(ctx context.Context, order createOrderDTO) (orderDTO, error) {
	var out orderDTO
	return out, c.send(ctx, http.MethodPost, "orders", order, &out)
}

func (c *client) updateOrder(ctx context.Context, id int64, update updateOrderDTO) (orderDTO, error) {
	var out orderDTO
	return out, c.send(ctx, http.MethodPut, "orders/"+strconv.FormatInt(id, 10), update, &out)
}

func (c *client) createRefund(ctx context.Context, orderID int64, refund createRefundDTO) (refundDTO, error) {
	var out refundDTO
	return out, c.send(ctx, http.MethodPost, "orders/"+strconv.FormatInt(orderID, 10)+"/refunds", refund, &out)
}

func (c *client) searchCustomers(ctx context.Context, query string) ([]customerDTO, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", "20")
	var out []customerDTO
	return out, c.get(ctx, "customers", params, &out)
}

func (c *client) createCustomer(ctx context.Context, customer createCustomerDTO) (customerDTO, error) {
	var out customerDTO
	return out, c.send(ctx, http.MethodPost, "customers", customer, &out)
}

func (c *client) taxRates(ctx context.Context) ([]taxRateDTO, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	var out []taxRateDTO
	return out, c.get(ctx, "taxes", params, &out)
}

func (c *client) storeCurrency(ctx context.Context) (string, error) {
	var out settingDTO
	if err := c.get(ctx, "settings/general/woocommerce_currency", nil, &out); err != nil {
		return "", err
	}
	if out.Value == "" {
		return "USD", nil
	}
	return out.Value, nil
}

func (c *client) systemStatus(ctx context.Context) (systemStatusDTO, error) {
	var out systemStatusDTO
	return out, c.get(ctx, "system_status", nil, &out)
}

func (c *client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("woocommerce: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

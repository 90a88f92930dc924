// Package woo adapts the WooCommerce REST API v3 to the backend contract.
package woo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tillsync/internal/backend"
	"tillsync/internal/domain"
)

// Backend implements backend.Backend against a WooCommerce store.
type Backend struct {
	config domain.StoreConfig
	client *client
}

func New(config domain.StoreConfig) *Backend {
	return &Backend{
		config: config,
		client: newClient(config.SiteURL, config.ConsumerKey, config.ConsumerSecret),
	}
}

func (b *Backend) currency() string {
	return b.config.Currency
}

func (b *Backend) FetchProducts(ctx context.Context, page, perPage int) ([]domain.Product, error) {
	dtos, err := b.client.products(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return b.withVariations(ctx, dtos)
}

func (b *Backend) FetchProductsSince(ctx context.Context, modifiedAfter time.Time) ([]domain.Product, error) {
	dtos, err := b.client.productsSince(ctx, modifiedAfter.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("fetch modified products: %w", err)
	}
	return b.withVariations(ctx, dtos)
}

func (b *Backend) FetchProduct(ctx context.Context, id int64) (*domain.Product, error) {
	dto, err := b.client.product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	product, err := b.resolveProduct(ctx, dto)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (b *Backend) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	dto, err := b.client.createOrder(ctx, draftToDTO(draft))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := orderFromDTO(dto, b.currency())
	return &order, nil
}

func (b *Backend) UpdateOrder(ctx context.Context, id int64, update domain.OrderUpdate) (*domain.Order, error) {
	dto, err := b.client.updateOrder(ctx, id, updateToDTO(update))
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	order := orderFromDTO(dto, b.currency())
	return &order, nil
}

func (b *Backend) RefundOrder(ctx context.Context, id, amountCents int64) (*domain.Refund, error) {
	dto, err := b.client.createRefund(ctx, id, createRefundDTO{Amount: domain.FormatCents(amountCents)})
	if err != nil {
		return nil, fmt.Errorf("refund order %d: %w", id, err)
	}
	refund := refundFromDTO(dto, id, b.currency())
	return &refund, nil
}

func (b *Backend) UpdateStock(ctx context.Context, productID int64, quantity int) (*domain.Product, error) {
	dto, err := b.client.updateProductStock(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update stock for product %d: %w", productID, err)
	}
	product, err := b.resolveProduct(ctx, dto)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (b *Backend) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	dtos, err := b.client.searchCustomers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	customers := make([]domain.Customer, 0, len(dtos))
	for _, dto := range dtos {
		customers = append(customers, customerFromDTO(dto))
	}
	return customers, nil
}

func (b *Backend) CreateCustomer(ctx context.Context, draft domain.CustomerDraft) (*domain.Customer, error) {
	dto, err := b.client.createCustomer(ctx, customerDraftToDTO(draft))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	customer := customerFromDTO(dto)
	return &customer, nil
}

func (b *Backend) FetchTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	dtos, err := b.client.taxRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tax rates: %w", err)
	}
	rates := make([]domain.TaxRate, 0, len(dtos))
	for _, dto := range dtos {
		rates = append(rates, taxRateFromDTO(dto))
	}
	return rates, nil
}

func (b *Backend) FetchStoreCurrency(ctx context.Context) (string, error) {
	currency, err := b.client.storeCurrency(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch store currency: %w", err)
	}
	return currency, nil
}

func (b *Backend) ValidateConnection(ctx context.Context) backend.ConnectionStatus {
	status, err := b.client.systemStatus(ctx)
	if err != nil {
		var httpErr *httpError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return backend.InvalidCredentials()
			case http.StatusNotFound:
				return backend.StoreNotFound()
			}
		}
		return backend.NetworkError(err.Error())
	}
	storeName := status.Settings.StoreName
	if storeName == "" {
		storeName = "WooCommerce Store"
	}
	return backend.Connected(storeName)
}

// withVariations maps the product list, resolving variation details with an
// extra call per variable product the way the catalog API requires.
func (b *Backend) withVariations(ctx context.Context, dtos []productDTO) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		product, err := b.resolveProduct(ctx, dto)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (b *Backend) resolveProduct(ctx context.Context, dto productDTO) (domain.Product, error) {
	var variations []variationDTO
	if len(dto.Variations) > 0 {
		var err error
		variations, err = b.client.productVariations(ctx, dto.ID)
		if err != nil {
			return domain.Product{}, fmt.Errorf("fetch variations for product %d: %w", dto.ID, err)
		}
	}
	return productFromDTO(dto, b.currency(), variations), nil
}

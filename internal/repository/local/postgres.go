package local

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tillsync/internal/domain"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, logger: logger}
}

const productColumns = `
id, name, sku, barcode, price_cents, regular_price_cents, sale_price_cents,
currency, stock_quantity, manage_stock, status, type, images, categories,
variants, created_at, updated_at`

func (s *postgresStore) Products(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *postgresStore) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *postgresStore) ProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	// A scan can hit either the product's own barcode or one stored on a
	// variant inside the variants document.
	q := `SELECT ` + productColumns + `
FROM products
WHERE barcode = $1
   OR variants @> jsonb_build_array(jsonb_build_object('barcode', $1::text))
LIMIT 1`
	p, err := scanProduct(s.pool.QueryRow(ctx, q, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *postgresStore) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE name ILIKE '%' || $1 || '%'
   OR sku ILIKE '%' || $1 || '%'
   OR barcode = $1
ORDER BY name ASC`
	rows, err := s.pool.Query(ctx, q, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *postgresStore) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (s *postgresStore) SaveProduct(ctx context.Context, product domain.Product) error {
	_, err := s.pool.Exec(ctx, upsertProductSQL, upsertProductArgs(product)...)
	if err != nil {
		s.logger.Printf("local store: save product id=%d error=%v", product.ID, err)
	}
	return err
}

func (s *postgresStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, product := range products {
		if _, err := tx.Exec(ctx, upsertProductSQL, upsertProductArgs(product)...); err != nil {
			s.logger.Printf("local store: save products batch failed at id=%d error=%v", product.ID, err)
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Printf("local store: saved %d products", len(products))
	return nil
}

func (s *postgresStore) DeleteAllProducts(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM products`)
	return err
}

const upsertProductSQL = `
INSERT INTO products (
    id, name, sku, barcode, price_cents, regular_price_cents, sale_price_cents,
    currency, stock_quantity, manage_stock, status, type, images, categories,
    variants, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    sku = EXCLUDED.sku,
    barcode = EXCLUDED.barcode,
    price_cents = EXCLUDED.price_cents,
    regular_price_cents = EXCLUDED.regular_price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    currency = EXCLUDED.currency,
    stock_quantity = EXCLUDED.stock_quantity,
    manage_stock = EXCLUDED.manage_stock,
    status = EXCLUDED.status,
    type = EXCLUDED.type,
    images = EXCLUDED.images,
    categories = EXCLUDED.categories,
    variants = EXCLUDED.variants,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at`

func upsertProductArgs(p domain.Product) []any {
	var regular, sale *int64
	if p.RegularPrice != nil {
		regular = &p.RegularPrice.AmountCents
	}
	if p.SalePrice != nil {
		sale = &p.SalePrice.AmountCents
	}
	images := p.Images
	if images == nil {
		images = []domain.ProductImage{}
	}
	categories := p.Categories
	if categories == nil {
		categories = []domain.ProductCategory{}
	}
	variants := p.Variants
	if variants == nil {
		variants = []domain.ProductVariant{}
	}
	return []any{
		p.ID, p.Name, p.SKU, p.Barcode, p.Price.AmountCents, regular, sale,
		p.Price.Currency, p.StockQuantity, p.ManageStock, string(p.Status),
		string(p.Type), images, categories, variants, p.CreatedAt, p.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p             domain.Product
		regular, sale *int64
		status, typ   string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.Price.AmountCents, &regular,
		&sale, &p.Price.Currency, &p.StockQuantity, &p.ManageStock, &status,
		&typ, &p.Images, &p.Categories, &p.Variants, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProductStatus(status)
	p.Type = domain.ProductType(typ)
	if regular != nil {
		p.RegularPrice = &domain.Money{AmountCents: *regular, Currency: p.Price.Currency}
	}
	if sale != nil {
		p.SalePrice = &domain.Money{AmountCents: *sale, Currency: p.Price.Currency}
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

const orderColumns = `
id, remote_id, number, status, line_items, customer_id, total_cents,
total_tax_cents, currency, payment_method, transaction_id, idempotency_key,
note, coupon_codes, created_at`

func (s *postgresStore) SaveOrder(ctx context.Context, order domain.Order) (int64, error) {
	const q = `
INSERT INTO orders (
    remote_id, number, status, line_items, customer_id, total_cents,
    total_tax_cents, currency, payment_method, transaction_id,
    idempotency_key, note, coupon_codes, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id`
	coupons := order.CouponCodes
	if coupons == nil {
		coupons = []string{}
	}
	var localID int64
	err := s.pool.QueryRow(ctx, q,
		order.RemoteID, order.Number, string(order.Status), order.LineItems,
		order.CustomerID, order.Total.AmountCents, order.TotalTax.AmountCents,
		order.Total.Currency, string(order.PaymentMethod), order.TransactionID,
		order.IdempotencyKey, order.Note, coupons, order.CreatedAt,
	).Scan(&localID)
	if err != nil {
		s.logger.Printf("local store: save order key=%s error=%v", order.IdempotencyKey, err)
		return 0, err
	}
	s.logger.Printf("local store: order saved id=%d status=%s", localID, order.Status)
	return localID, nil
}

func (s *postgresStore) PendingSyncOrders(ctx context.Context) ([]domain.Order, error) {
	// Strict FIFO: the drain must push oldest first.
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE status = $1
ORDER BY created_at ASC, id ASC`
	rows, err := s.pool.Query(ctx, q, string(domain.OrderPendingSync))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *postgresStore) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (s *postgresStore) PendingSyncOrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`,
		string(domain.OrderPendingSync)).Scan(&count)
	return count, err
}

func (s *postgresStore) UpdateOrderStatus(ctx context.Context, localID int64, status domain.OrderStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, localID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) UpdateOrderRemote(ctx context.Context, localID, remoteID int64, number string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET remote_id = $2, number = $3 WHERE id = $1`,
		localID, remoteID, number)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) UpdateOrderTransactionID(ctx context.Context, localID int64, transactionID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET transaction_id = $2 WHERE id = $1`,
		localID, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var (
			o              domain.Order
			status, method string
		)
		err := rows.Scan(
			&o.LocalID, &o.RemoteID, &o.Number, &status, &o.LineItems,
			&o.CustomerID, &o.Total.AmountCents, &o.TotalTax.AmountCents,
			&o.Total.Currency, &method, &o.TransactionID, &o.IdempotencyKey,
			&o.Note, &o.CouponCodes, &o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		o.PaymentMethod = domain.PaymentMethod(method)
		o.TotalTax.Currency = o.Total.Currency
		result = append(result, o)
	}
	return result, rows.Err()
}

func (s *postgresStore) ReplaceTaxRates(ctx context.Context, rates []domain.TaxRate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tax_rates`); err != nil {
		return err
	}
	const q = `
INSERT INTO tax_rates (id, name, rate, country, state, compound, shipping)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, rate := range rates {
		if _, err := tx.Exec(ctx, q, rate.ID, rate.Name, rate.Rate, rate.Country,
			rate.State, rate.Compound, rate.Shipping); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Printf("local store: tax rates replaced count=%d", len(rates))
	return nil
}

func (s *postgresStore) TaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, rate, country, state, compound, shipping FROM tax_rates ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaxRate
	for rows.Next() {
		var r domain.TaxRate
		if err := rows.Scan(&r.ID, &r.Name, &r.Rate, &r.Country, &r.State, &r.Compound, &r.Shipping); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *postgresStore) LastSyncedAt(ctx context.Context, entityType string) (*time.Time, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT last_synced_at FROM sync_state WHERE entity_type = $1`, entityType).Scan(&t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *postgresStore) SetLastSyncedAt(ctx context.Context, entityType string, t time.Time) error {
	const q = `
INSERT INTO sync_state (entity_type, last_synced_at)
VALUES ($1, $2)
ON CONFLICT (entity_type) DO UPDATE SET last_synced_at = EXCLUDED.last_synced_at`
	_, err := s.pool.Exec(ctx, q, entityType, t)
	return err
}

func (s *postgresStore) StoreConfig(ctx context.Context) (*domain.StoreConfig, error) {
	var cfg domain.StoreConfig
	err := s.pool.QueryRow(ctx,
		`SELECT site_url, consumer_key, consumer_secret, currency FROM store_config WHERE id`).
		Scan(&cfg.SiteURL, &cfg.ConsumerKey, &cfg.ConsumerSecret, &cfg.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (s *postgresStore) SaveStoreConfig(ctx context.Context, config domain.StoreConfig) error {
	const q = `
INSERT INTO store_config (id, site_url, consumer_key, consumer_secret, currency)
VALUES (TRUE, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    site_url = EXCLUDED.site_url,
    consumer_key = EXCLUDED.consumer_key,
    consumer_secret = EXCLUDED.consumer_secret,
    currency = EXCLUDED.currency`
	_, err := s.pool.Exec(ctx, q, config.SiteURL, config.ConsumerKey, config.ConsumerSecret, config.Currency)
	if err != nil {
		s.logger.Printf("local store: save store config error=%v", err)
		return err
	}
	s.logger.Printf("local store: store config saved site=%s", config.SiteURL)
	return nil
}

func (s *postgresStore) DeleteStoreConfig(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM store_config`)
	return err
}

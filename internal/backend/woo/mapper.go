package woo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"tillsync/internal/domain"
)

const (
	barcodeMetaKey        = "_barcode"
	idempotencyMetaKey    = "_onetill_idempotency_key"
	sourceMetaKey         = "_onetill_source"
	noteMetaKey           = "_onetill_note"
	transactionMetaKey    = "_onetill_transaction_id"
	oldTransactionMetaKey = "_stripe_transaction_id"
	sourceMetaValue       = "onetill_pos"
)

func productFromDTO(dto productDTO, currency string, variations []variationDTO) domain.Product {
	p := domain.Product{
		ID:            dto.ID,
		Name:          dto.Name,
		SKU:           optional(dto.SKU),
		Barcode:       metaString(dto.MetaData, barcodeMetaKey),
		Price:         domain.ParseMoney(dto.Price, currency),
		RegularPrice:  optionalMoney(dto.RegularPrice, currency),
		SalePrice:     optionalMoney(dto.SalePrice, currency),
		StockQuantity: dto.StockQuantity,
		ManageStock:   dto.ManageStock,
		Status:        productStatusFromWoo(dto.Status),
		Type:          productTypeFromWoo(dto.Type),
		CreatedAt:     parseWooTime(dto.DateCreated),
		UpdatedAt:     parseWooTime(dto.DateModified),
	}
	for _, img := range dto.Images {
		p.Images = append(p.Images, domain.ProductImage{ID: img.ID, URL: img.Src})
	}
	for _, cat := range dto.Categories {
		p.Categories = append(p.Categories, domain.ProductCategory{ID: cat.ID, Name: cat.Name})
	}
	for _, v := range variations {
		p.Variants = append(p.Variants, variantFromDTO(v, dto.ID, currency))
	}
	return p
}

func variantFromDTO(dto variationDTO, productID int64, currency string) domain.ProductVariant {
	var options []string
	attrs := make([]domain.VariantAttribute, 0, len(dto.Attributes))
	for _, a := range dto.Attributes {
		options = append(options, a.Option)
		attrs = append(attrs, domain.VariantAttribute{Name: a.Name, Value: a.Option})
	}
	name := strings.Join(options, " / ")
	if name == "" {
		name = fmt.Sprintf("Variation %d", dto.ID)
	}
	return domain.ProductVariant{
		ID:            dto.ID,
		ProductID:     productID,
		Name:          name,
		SKU:           optional(dto.SKU),
		Barcode:       metaString(dto.MetaData, barcodeMetaKey),
		Price:         domain.ParseMoney(dto.Price, currency),
		RegularPrice:  optionalMoney(dto.RegularPrice, currency),
		SalePrice:     optionalMoney(dto.SalePrice, currency),
		StockQuantity: dto.StockQuantity,
		ManageStock:   dto.ManageStock,
		Attributes:    attrs,
	}
}

// orderFromDTO maps a remote order back to the domain. Notes stored in
// metadata on create are not read back; the local record keeps its own note.
func orderFromDTO(dto orderDTO, currency string) domain.Order {
	order := domain.Order{
		RemoteID:      dto.ID,
		Number:        dto.Number,
		Status:        orderStatusFromWoo(dto.Status),
		Total:         domain.ParseMoney(dto.Total, currency),
		TotalTax:      domain.ParseMoney(dto.TotalTax, currency),
		PaymentMethod: paymentMethodFromWoo(dto.PaymentMethod),
		TransactionID: firstMetaString(dto.MetaData, transactionMetaKey, oldTransactionMetaKey),
		CreatedAt:     parseWooTime(dto.DateCreated),
	}
	if dto.CustomerID > 0 {
		id := dto.CustomerID
		order.CustomerID = &id
	}
	if key := metaString(dto.MetaData, idempotencyMetaKey); key != nil {
		order.IdempotencyKey = *key
	}
	for _, item := range dto.LineItems {
		order.LineItems = append(order.LineItems, lineItemFromDTO(item, currency))
	}
	for _, coupon := range dto.CouponLines {
		order.CouponCodes = append(order.CouponCodes, coupon.Code)
	}
	return order
}

func lineItemFromDTO(dto lineItemDTO, currency string) domain.LineItem {
	item := domain.LineItem{
		ProductID:  dto.ProductID,
		Name:       dto.Name,
		SKU:        optional(dto.SKU),
		Quantity:   dto.Quantity,
		UnitPrice:  domain.Money{AmountCents: int64(math.Round(dto.Price * 100)), Currency: currency},
		TotalPrice: domain.ParseMoney(dto.Total, currency),
	}
	if dto.ID > 0 {
		id := dto.ID
		item.ID = &id
	}
	if dto.VariationID > 0 {
		id := dto.VariationID
		item.VariantID = &id
	}
	return item
}

// draftToDTO builds the order creation payload. The idempotency key always
// rides in the metadata so a retried draft resolves to one remote order.
func draftToDTO(draft domain.OrderDraft) createOrderDTO {
	dto := createOrderDTO{
		Status:             "processing",
		PaymentMethod:      paymentMethodToWoo(draft.PaymentMethod),
		PaymentMethodTitle: paymentMethodTitle(draft.PaymentMethod),
		SetPaid:            draft.PaymentMethod == domain.PaymentCash,
		MetaData: []createMetaDTO{
			{Key: idempotencyMetaKey, Value: draft.IdempotencyKey},
			{Key: sourceMetaKey, Value: sourceMetaValue},
		},
	}
	if draft.CustomerID != nil {
		dto.CustomerID = *draft.CustomerID
	}
	if draft.Note != nil {
		dto.MetaData = append(dto.MetaData, createMetaDTO{Key: noteMetaKey, Value: *draft.Note})
	}
	for _, item := range draft.LineItems {
		line := createLineItemDTO{ProductID: item.ProductID, Quantity: item.Quantity}
		if item.VariantID != nil {
			line.VariationID = *item.VariantID
		}
		dto.LineItems = append(dto.LineItems, line)
	}
	for _, code := range draft.CouponCodes {
		dto.CouponLines = append(dto.CouponLines, couponLineDTO{Code: code})
	}
	return dto
}

func updateToDTO(update domain.OrderUpdate) updateOrderDTO {
	dto := updateOrderDTO{}
	if update.Status != nil {
		dto.Status = orderStatusToWoo(*update.Status)
	}
	if update.TransactionID != nil {
		dto.MetaData = append(dto.MetaData, createMetaDTO{Key: transactionMetaKey, Value: *update.TransactionID})
	}
	if update.Note != nil {
		dto.MetaData = append(dto.MetaData, createMetaDTO{Key: noteMetaKey, Value: *update.Note})
	}
	return dto
}

func taxRateFromDTO(dto taxRateDTO) domain.TaxRate {
	return domain.TaxRate{
		ID:       dto.ID,
		Name:     dto.Name,
		Rate:     dto.Rate,
		Country:  dto.Country,
		State:    dto.State,
		Compound: dto.Compound,
		Shipping: dto.Shipping,
	}
}

func customerFromDTO(dto customerDTO) domain.Customer {
	c := domain.Customer{
		ID:        dto.ID,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     optional(dto.Email),
	}
	if dto.Billing != nil {
		c.Phone = optional(dto.Billing.Phone)
	}
	return c
}

func customerDraftToDTO(draft domain.CustomerDraft) createCustomerDTO {
	dto := createCustomerDTO{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
	}
	if draft.Email != nil {
		dto.Email = *draft.Email
	}
	if draft.Phone != nil {
		dto.Billing = &billingDTO{Phone: *draft.Phone}
	}
	return dto
}

func refundFromDTO(dto refundDTO, orderID int64, currency string) domain.Refund {
	return domain.Refund{
		ID:        dto.ID,
		OrderID:   orderID,
		Amount:    domain.ParseMoney(dto.Amount, currency),
		Reason:    optional(dto.Reason),
		CreatedAt: parseWooTime(dto.DateCreated),
	}
}

func productStatusFromWoo(status string) domain.ProductStatus {
	switch status {
	case "publish":
		return domain.ProductPublished
	case "draft", "pending":
		return domain.ProductDraft
	default:
		return domain.ProductArchived
	}
}

func productTypeFromWoo(t string) domain.ProductType {
	if t == "variable" {
		return domain.ProductVariable
	}
	return domain.ProductSimple
}

func orderStatusFromWoo(status string) domain.OrderStatus {
	switch status {
	case "processing":
		return domain.OrderProcessing
	case "completed":
		return domain.OrderCompleted
	case "cancelled":
		return domain.OrderCancelled
	case "refunded":
		return domain.OrderRefunded
	case "failed":
		return domain.OrderFailed
	default:
		return domain.OrderPending
	}
}

func orderStatusToWoo(status domain.OrderStatus) string {
	// PENDING_SYNC is a local-only state; remotely it is just pending.
	if status == domain.OrderPendingSync {
		return "pending"
	}
	return string(status)
}

func paymentMethodFromWoo(method string) domain.PaymentMethod {
	lower := strings.ToLower(method)
	if strings.Contains(lower, "stripe") || strings.Contains(lower, "card") {
		return domain.PaymentCard
	}
	return domain.PaymentCash
}

func paymentMethodToWoo(method domain.PaymentMethod) string {
	if method == domain.PaymentCard {
		return "stripe"
	}
	return "cash"
}

func paymentMethodTitle(method domain.PaymentMethod) string {
	if method == domain.PaymentCard {
		return "Card (Stripe Terminal)"
	}
	return "Cash"
}

// parseWooTime parses WooCommerce datetimes. The API returns local-looking
// strings without a zone ("2024-01-15T10:30:00") that are in fact UTC.
func parseWooTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	normalized := s
	if !strings.HasSuffix(s, "Z") && !strings.Contains(s, "+") {
		normalized = s + "Z"
	}
	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}
	}
	return t
}

// metaString extracts a metadata value as a trimmed string. Values arrive as
// arbitrary JSON; anything non-string falls back to its raw text.
func metaString(meta []metaDTO, key string) *string {
	for _, m := range meta {
		if m.Key != key || len(m.Value) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(m.Value, &s); err != nil {
			s = strings.Trim(string(m.Value), `"`)
		}
		if s == "" {
			return nil
		}
		return &s
	}
	return nil
}

func firstMetaString(meta []metaDTO, keys ...string) *string {
	for _, key := range keys {
		if s := metaString(meta, key); s != nil {
			return s
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalMoney(s, currency string) *domain.Money {
	if s == "" {
		return nil
	}
	m := domain.ParseMoney(s, currency)
	return &m
}

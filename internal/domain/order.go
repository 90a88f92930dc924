package domain

import "time"

type OrderStatus string

const (
	OrderPending     OrderStatus = "pending"
	OrderProcessing  OrderStatus = "processing"
	OrderCompleted   OrderStatus = "completed"
	OrderCancelled   OrderStatus = "cancelled"
	OrderRefunded    OrderStatus = "refunded"
	OrderFailed      OrderStatus = "failed"
	OrderPendingSync OrderStatus = "pending_sync"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Order is the persisted order record. LocalID is assigned by the local
// store on first save and stays stable for the life of the record; RemoteID
// is zero until the order has been pushed to the backend.
type Order struct {
	LocalID        int64         `json:"localId"`
	RemoteID       int64         `json:"remoteId,omitempty"`
	Number         string        `json:"number,omitempty"`
	Status         OrderStatus   `json:"status"`
	LineItems      []LineItem    `json:"lineItems"`
	CustomerID     *int64        `json:"customerId,omitempty"`
	Total          Money         `json:"total"`
	TotalTax       Money         `json:"totalTax"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	TransactionID  *string       `json:"transactionId,omitempty"`
	IdempotencyKey string        `json:"idempotencyKey"`
	Note           *string       `json:"note,omitempty"`
	CouponCodes    []string      `json:"couponCodes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// OrderDraft is the pre-submission order built from cart state. It carries no
// server identity; the idempotency key is what lets the backend deduplicate
// retried submissions.
type OrderDraft struct {
	LineItems      []LineItem    `json:"lineItems"`
	CustomerID     *int64        `json:"customerId,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	IdempotencyKey string        `json:"idempotencyKey"`
	Note           *string       `json:"note,omitempty"`
	CouponCodes    []string      `json:"couponCodes,omitempty"`
}

type OrderUpdate struct {
	Status        *OrderStatus `json:"status,omitempty"`
	TransactionID *string      `json:"transactionId,omitempty"`
	Note          *string      `json:"note,omitempty"`
}

type LineItem struct {
	ID         *int64  `json:"id,omitempty"`
	ProductID  int64   `json:"productId"`
	VariantID  *int64  `json:"variantId,omitempty"`
	Name       string  `json:"name"`
	SKU        *string `json:"sku,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  Money   `json:"unitPrice"`
	TotalPrice Money   `json:"totalPrice"`
}

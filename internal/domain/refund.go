package domain

import "time"

type Refund struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Amount    Money     `json:"amount"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

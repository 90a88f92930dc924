package woo

import "encoding/json"

// Wire types for the WooCommerce REST API v3. Money travels as decimal
// strings, booleans and ids as native JSON types. Unknown fields are ignored
// by encoding/json, which matches how lenient the API is in practice.

type productDTO struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	SKU           string        `json:"sku"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	Price         string        `json:"price"`
	RegularPrice  string        `json:"regular_price"`
	SalePrice     string        `json:"sale_price"`
	ManageStock   bool          `json:"manage_stock"`
	StockQuantity *int          `json:"stock_quantity"`
	Images        []imageDTO    `json:"images"`
	Categories    []categoryDTO `json:"categories"`
	Variations    []int64       `json:"variations"`
	MetaData      []metaDTO     `json:"meta_data"`
	DateCreated   string        `json:"date_created"`
	DateModified  string        `json:"date_modified"`
}

type imageDTO struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type metaDTO struct {
	ID    int64           `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type variationDTO struct {
	ID            int64          `json:"id"`
	SKU           string         `json:"sku"`
	Price         string         `json:"price"`
	RegularPrice  string         `json:"regular_price"`
	SalePrice     string         `json:"sale_price"`
	ManageStock   bool           `json:"manage_stock"`
	StockQuantity *int           `json:"stock_quantity"`
	Attributes    []attributeDTO `json:"attributes"`
	MetaData      []metaDTO      `json:"meta_data"`
}

type attributeDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

type orderDTO struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	CustomerID    int64           `json:"customer_id"`
	Total         string          `json:"total"`
	TotalTax      string          `json:"total_tax"`
	LineItems     []lineItemDTO   `json:"line_items"`
	PaymentMethod string          `json:"payment_method"`
	CouponLines   []couponLineDTO `json:"coupon_lines"`
	MetaData      []metaDTO       `json:"meta_data"`
	DateCreated   string          `json:"date_created"`
}

type lineItemDTO struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	VariationID int64   `json:"variation_id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       string  `json:"total"`
}

type couponLineDTO struct {
	Code string `json:"code"`
}

type createOrderDTO struct {
	Status             string              `json:"status"`
	CustomerID         int64               `json:"customer_id"`
	PaymentMethod      string              `json:"payment_method"`
	PaymentMethodTitle string              `json:"payment_method_title"`
	SetPaid            bool                `json:"set_paid"`
	LineItems          []createLineItemDTO `json:"line_items"`
	CouponLines        []couponLineDTO     `json:"coupon_lines,omitempty"`
	MetaData           []createMetaDTO     `json:"meta_data,omitempty"`
}

type createLineItemDTO struct {
	ProductID   int64 `json:"product_id"`
	VariationID int64 `json:"variation_id,omitempty"`
	Quantity    int   `json:"quantity"`
}

type createMetaDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type updateOrderDTO struct {
	Status   string          `json:"status,omitempty"`
	MetaData []createMetaDTO `json:"meta_data,omitempty"`
}

type taxRateDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Compound bool   `json:"compound"`
	Shipping bool   `json:"shipping"`
}

type customerDTO struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Billing   *billingDTO `json:"billing"`
}

type billingDTO struct {
	Phone string `json:"phone"`
}

type createCustomerDTO struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email,omitempty"`
	Billing   *billingDTO `json:"billing,omitempty"`
}

type refundDTO struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Reason      string `json:"reason"`
	DateCreated string `json:"date_created"`
}

type createRefundDTO struct {
	Amount string `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type settingDTO struct {
	Value string `json:"value"`
}

type systemStatusDTO struct {
	Settings struct {
		StoreName string `json:"store_name"`
	} `json:"settings"`
}

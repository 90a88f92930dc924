package cart

import "tillsync/internal/domain"

// Item is one cart line. Lines merge on (ProductID, VariantID); a nil
// VariantID is the base product line.
type Item struct {
	ProductID int64        `json:"productId"`
	VariantID *int64       `json:"variantId,omitempty"`
	Name      string       `json:"name"`
	SKU       *string      `json:"sku,omitempty"`
	UnitPrice domain.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	ImageURL  *string      `json:"imageUrl,omitempty"`
}

func (i Item) TotalPrice() domain.Money {
	return i.UnitPrice.MulQty(i.Quantity)
}

func (i Item) matches(productID int64, variantID *int64) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}

func (i Item) toLineItem() domain.LineItem {
	return domain.LineItem{
		ProductID:  i.ProductID,
		VariantID:  i.VariantID,
		Name:       i.Name,
		SKU:        i.SKU,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		TotalPrice: i.TotalPrice(),
	}
}

func itemFromProduct(p domain.Product) Item {
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageURL:  firstImageURL(p),
	}
}

func itemFromVariant(p domain.Product, v domain.ProductVariant) Item {
	name := p.Name
	if v.Name != "" {
		name = p.Name + " - " + v.Name
	}
	sku := v.SKU
	if sku == nil {
		sku = p.SKU
	}
	variantID := v.ID
	return Item{
		ProductID: p.ID,
		VariantID: &variantID,
		Name:      name,
		SKU:       sku,
		UnitPrice: v.Price,
		Quantity:  1,
		ImageURL:  firstImageURL(p),
	}
}

func firstImageURL(p domain.Product) *string {
	if len(p.Images) == 0 {
		return nil
	}
	url := p.Images[0].URL
	return &url
}

// State is the derived cart snapshot, recomputed in full on every mutation
// and published to observers. It is never persisted.
type State struct {
	Items          []Item       `json:"items"`
	CouponCodes    []string     `json:"couponCodes"`
	CustomerID     *int64       `json:"customerId,omitempty"`
	Note           *string      `json:"note,omitempty"`
	Currency       string       `json:"currency"`
	Subtotal       domain.Money `json:"subtotal"`
	EstimatedTax   domain.Money `json:"estimatedTax"`
	EstimatedTotal domain.Money `json:"estimatedTotal"`
	ItemCount      int          `json:"itemCount"`
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func emptyState(currency string) State {
	return State{
		Items:          []Item{},
		CouponCodes:    []string{},
		Currency:       currency,
		Subtotal:       domain.Zero(currency),
		EstimatedTax:   domain.Zero(currency),
		EstimatedTotal: domain.Zero(currency),
	}
}

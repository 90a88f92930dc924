package domain

import "time"

type ProductStatus string

const (
	ProductPublished ProductStatus = "published"
	ProductDraft     ProductStatus = "draft"
	ProductArchived  ProductStatus = "archived"
)

type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
)

type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	SKU           *string           `json:"sku,omitempty"`
	Barcode       *string           `json:"barcode,omitempty"`
	Price         Money             `json:"price"`
	RegularPrice  *Money            `json:"regularPrice,omitempty"`
	SalePrice     *Money            `json:"salePrice,omitempty"`
	StockQuantity *int              `json:"stockQuantity,omitempty"`
	ManageStock   bool              `json:"manageStock"`
	Status        ProductStatus     `json:"status"`
	Images        []ProductImage    `json:"images,omitempty"`
	Categories    []ProductCategory `json:"categories,omitempty"`
	Variants      []ProductVariant  `json:"variants,omitempty"`
	Type          ProductType       `json:"type"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type ProductVariant struct {
	ID            int64              `json:"id"`
	ProductID     int64              `json:"productId"`
	Name          string             `json:"name"`
	SKU           *string            `json:"sku,omitempty"`
	Barcode       *string            `json:"barcode,omitempty"`
	Price         Money              `json:"price"`
	RegularPrice  *Money             `json:"regularPrice,omitempty"`
	SalePrice     *Money             `json:"salePrice,omitempty"`
	StockQuantity *int               `json:"stockQuantity,omitempty"`
	ManageStock   bool               `json:"manageStock"`
	Attributes    []VariantAttribute `json:"attributes,omitempty"`
}

type VariantAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductImage struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

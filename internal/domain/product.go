package domain

import (
	"github.com/shopspring/decimal"
)

// Product is the wire representation exchanged with the storefront backend.
// ID is assigned by the backend and is empty until the product is persisted.
type Product struct {
	ID             string          `json:"id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	MainCategory   string          `json:"mainCategory"`
	SubCategory    string          `json:"subCategory"`
	SpecificType   string          `json:"specificType,omitempty"`
	Specifications []Specification `json:"specifications,omitempty"`
	Images         Images          `json:"images"`
	Variants       []Variant       `json:"variants"`
}

type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Images holds inline data URIs. Preview is the required main image,
// the gallery slots are optional additional views.
type Images struct {
	Preview string         `json:"preview,omitempty"`
	Gallery []GalleryImage `json:"gallery,omitempty"`
}

type GalleryImage struct {
	View string `json:"view"`
	File string `json:"file,omitempty"`
}

// Variant is a color-specific price/stock grouping within a product.
type Variant struct {
	Color string `json:"color"`
	Price Price  `json:"price"`
	Sizes []Size `json:"sizes"`
}

type Price struct {
	Original   decimal.Decimal `json:"original"`
	Discounted decimal.Decimal `json:"discounted"`
	OffPercent int             `json:"offPercent"`
}

type Size struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type OpenDraftRequest struct {
	ProductID string `json:"product_id"`
}

// DraftOpRequest carries a single form mutation. Op selects the mutation,
// the remaining fields are interpreted per op.
type DraftOpRequest struct {
	Op      string `json:"op" binding:"required"`
	Variant int    `json:"variant"`
	Size    int    `json:"size"`
	Field   string `json:"field"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

package catalog

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Brand        string    `json:"brand"`
	BrandSlug    string    `json:"brandSlug,omitempty"`
	Category     string    `json:"category"`
	CategorySlug string    `json:"categorySlug"`
	Price        int64     `json:"price"`
	OldPrice     int64     `json:"oldPrice,omitempty"`
	Badge        string    `json:"badge,omitempty"`
	InStock      bool      `json:"inStock"`
	Image        string    `json:"image"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListFilter narrows and orders product listings. Zero values mean
// "no constraint"; Limit 0 falls back to the repository default.
type ListFilter struct {
	CategorySlug string
	BrandSlug    string
	Search       string
	InStockOnly  bool
	Sort         string // "price_asc", "price_desc", "name"; default newest first
	Offset       int
	Limit        int
}

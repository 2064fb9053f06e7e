package models

import (
	"strings"
	"time"
)

// Product is a catalog item as stored and served by the API.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImgSrc      string    `json:"imgSrc" db:"img_src"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductInput is the create payload for a single product.
type ProductInput struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	ImgSrc      string  `json:"imgSrc" yaml:"imgSrc"`
	Price       float64 `json:"price" yaml:"price"`
}

// Missing returns the names of required fields that are absent or falsy.
func (in ProductInput) Missing() []string {
	var out []string
	if strings.TrimSpace(in.Title) == "" {
		out = append(out, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		out = append(out, "description")
	}
	if strings.TrimSpace(in.ImgSrc) == "" {
		out = append(out, "imgSrc")
	}
	if in.Price <= 0 {
		out = append(out, "price")
	}
	return out
}

// Valid reports whether every required field is present.
func (in ProductInput) Valid() bool { return len(in.Missing()) == 0 }

// ProductPatch carries a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImgSrc      *string  `json:"imgSrc,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ImgSrc == nil && p.Price == nil
}

// Invalid returns the names of fields that are present but would break the
// product invariants (blank text, non-positive price).
func (p ProductPatch) Invalid() []string {
	var out []string
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		out = append(out, "title")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		out = append(out, "description")
	}
	if p.ImgSrc != nil && strings.TrimSpace(*p.ImgSrc) == "" {
		out = append(out, "imgSrc")
	}
	if p.Price != nil && *p.Price <= 0 {
		out = append(out, "price")
	}
	return out
}

// Apply merges the patch into p and returns the result.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.ImgSrc != nil {
		prod.ImgSrc = *p.ImgSrc
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	return prod
}

// NewProduct builds a Product from input with the given id and timestamp.
func NewProduct(id string, in ProductInput, now time.Time) Product {
	return Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		ImgSrc:      in.ImgSrc,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

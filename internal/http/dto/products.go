package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/myglobyx/globyx-api/internal/store/core"
)

// ProductCreateRequest represents the request body for POST /api/admin/products
type ProductCreateRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	MediaURL       string   `json:"mediaUrl,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	LandingPageURL string   `json:"landingPageUrl,omitempty"`
	Category       string   `json:"categoria,omitempty"`
	Subcategory    string   `json:"subcategoria,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Active         bool     `json:"active"`
}

// Validate will run validation rules
func (r ProductCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

// ProductUpdateRequest represents the request body for PUT /api/admin/products/{id}.
// Nil fields are left untouched.
type ProductUpdateRequest struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	MediaURL       *string  `json:"mediaUrl,omitempty"`
	Thumbnail      *string  `json:"thumbnail,omitempty"`
	LandingPageURL *string  `json:"landingPageUrl,omitempty"`
	Category       *string  `json:"categoria,omitempty"`
	Subcategory    *string  `json:"subcategoria,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// Validate will run validation rules
func (r ProductUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
	)
}

// ProductResponse is the public shape of a catalog product.
type ProductResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description,omitempty"`
	MediaURL       string     `json:"mediaUrl,omitempty"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	LandingPageURL string     `json:"landingPageUrl,omitempty"`
	Category       string     `json:"categoria,omitempty"`
	Subcategory    string     `json:"subcategoria,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// ProductFromCore shapes a stored product for the API.
func ProductFromCore(p *core.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		MediaURL:       p.MediaURL,
		Thumbnail:      p.Thumbnail,
		LandingPageURL: p.LandingPageURL,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Price:          p.Price,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ProductsFromCore shapes a list of products.
func ProductsFromCore(ps []core.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for i := range ps {
		out = append(out, ProductFromCore(&ps[i]))
	}
	return out
}

// ProductListResponse wraps product lists ({"products": [...]}).
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// ProductItemResponse wraps a single product ({"product": {...}}).
type ProductItemResponse struct {
	Product ProductResponse `json:"product"`
}

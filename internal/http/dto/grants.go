package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/myglobyx/globyx-api/internal/store/core"
)

// GrantCreateRequest represents the request body for POST /api/admin/grants
type GrantCreateRequest struct {
	Email     string     `json:"email"`
	ProductID string     `json:"productId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Validate will run validation rules
func (r GrantCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ProductID, validation.Required),
	)
}

// GrantResponse is the public shape of an access grant.
type GrantResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	ProductID string     `json:"productId"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// GrantFromCore shapes a stored grant for the API.
func GrantFromCore(g *core.Grant) GrantResponse {
	return GrantResponse{
		ID:        g.ID,
		Email:     g.Email,
		ProductID: g.ProductID,
		CreatedAt: g.CreatedAt,
		ExpiresAt: g.ExpiresAt,
	}
}

// GrantsFromCore shapes a list of grants.
func GrantsFromCore(gs []core.Grant) []GrantResponse {
	out := make([]GrantResponse, 0, len(gs))
	for i := range gs {
		out = append(out, GrantFromCore(&gs[i]))
	}
	return out
}

// GrantListResponse wraps grant lists ({"grants": [...]}).
type GrantListResponse struct {
	Grants []GrantResponse `json:"grants"`
}

// GrantItemResponse wraps a single grant ({"grant": {...}}).
type GrantItemResponse struct {
	Grant GrantResponse `json:"grant"`
}

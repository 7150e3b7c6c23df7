package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/myglobyx/globyx-api/internal/store/core"
)

// AddressPayload mirrors core.Address for JSON in/out.
type AddressPayload struct {
	CEP        *string `json:"cep,omitempty"`
	Street     *string `json:"street,omitempty"`
	Number     *string `json:"number,omitempty"`
	Complement *string `json:"complement,omitempty"`
	District   *string `json:"district,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
}

// Validate will run validation rules
func (a AddressPayload) Validate() error {
	return validation.ValidateStruct(&a,
		// UF opcional, pero si viene tiene que tener 2 chars
		validation.Field(&a.State, validation.Length(2, 2)),
	)
}

// ProfilePatchRequest represents the request body for PUT /api/profile/me.
// Nil fields are left untouched.
type ProfilePatchRequest struct {
	Name      *string         `json:"name,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Birthdate *string         `json:"birthdate,omitempty"`
	Document  *string         `json:"document,omitempty"`
	Address   *AddressPayload `json:"address,omitempty"`
}

// Validate will run validation rules
func (r ProfilePatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(2, 80)),
		validation.Field(&r.Phone, validation.Length(8, 20)),
		validation.Field(&r.Address),
	)
}

// ProfileResponse is the response for profile reads and updates.
type ProfileResponse struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Birthdate  string          `json:"birthdate,omitempty"`
	Document   string          `json:"document,omitempty"`
	Address    *core.Address   `json:"address,omitempty"`
	IsVerified bool            `json:"isVerified"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

// ProfileFromUser shapes a stored user into its public profile.
func ProfileFromUser(u *core.User) ProfileResponse {
	return ProfileResponse{
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Birthdate:  u.Birthdate,
		Document:   u.Document,
		Address:    u.Address,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

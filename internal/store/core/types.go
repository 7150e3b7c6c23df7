package core

import "time"

// User es el registro de cuenta. Email va siempre normalizado
// (lowercase/trim) y es la clave de lookup en todas las colecciones.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool

	// Token de verificación pendiente (hash SHA-256, nunca el plaintext).
	// Ambos campos se limpian exactamente cuando la verificación tiene éxito.
	VerificationHash    []byte
	VerificationExpires *time.Time

	Phone     string
	Birthdate string // YYYY-MM-DD
	Document  string
	Address   *Address

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Address es la dirección postal del perfil.
type Address struct {
	CEP        string `json:"cep,omitempty"`
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
}

// ProfilePatch es un update parcial del perfil. Punteros nil = sin cambio.
type ProfilePatch struct {
	Name      *string
	Phone     *string
	Birthdate *string
	Document  *string
	Address   *Address
}

// Product es un ítem del catálogo.
type Product struct {
	ID             string
	Title          string
	Slug           string
	Description    string
	MediaURL       string
	Thumbnail      string
	LandingPageURL string
	Category       string
	Subcategory    string
	Price          *float64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ProductPatch es un update parcial de producto. Punteros nil = sin cambio.
type ProductPatch struct {
	Title          *string
	Description    *string
	MediaURL       *string
	Thumbnail      *string
	LandingPageURL *string
	Category       *string
	Subcategory    *string
	Price          *float64
	Active         *bool
}

// Grant autoriza a un email a acceder a un producto, con expiración opcional.
// La clave natural es (email normalizado, product_id): a lo sumo un grant por
// par, garantizado por unique index en el storage.
type Grant struct {
	ID        string // "<email>::<productID>"
	Email     string
	ProductID string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// GrantID arma la clave compuesta de un grant.
func GrantID(email, productID string) string {
	return email + "::" + productID
}

// ActiveAt informa si el grant otorga acceso en el instante dado.
// Un expires_at en el pasado lo vuelve inerte (se filtra en lectura).
func (g Grant) ActiveAt(t time.Time) bool {
	return g.ExpiresAt == nil || g.ExpiresAt.After(t)
}

package jwt

import "strings"

// Claims es el payload de identidad que viaja en el token.
// Subject y Email van siempre normalizados (lowercase + trim) y son el
// mismo valor: sub es autoritativo, email es espejo para los clientes.
type Claims struct {
	Subject string
	Email   string
	Name    string
	IsAdmin bool
}

// NormalizeEmail es la normalización canónica de identidad en todo el
// sistema: trim + lowercase.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize devuelve una copia con subject/email normalizados.
// Si subject está vacío pero email no, se completa desde email.
func (c Claims) Normalize() Claims {
	c.Subject = NormalizeEmail(c.Subject)
	c.Email = NormalizeEmail(c.Email)
	if c.Subject == "" {
		c.Subject = c.Email
	}
	if c.Email == "" {
		c.Email = c.Subject
	}
	c.Name = strings.TrimSpace(c.Name)
	return c
}

// Identity es el único accessor de identidad que deben usar los consumidores
// (evita la ambigüedad sub vs email).
func (c Claims) Identity() string {
	return c.Subject
}

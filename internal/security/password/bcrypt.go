// Package password envuelve bcrypt para el hash de credenciales.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost equivale a logins interactivos razonables.
	DefaultCost = 10
	// MinCost y MaxCost acotan la configuración del operador.
	MinCost = 8
	MaxCost = 12
)

// Hasher genera y verifica hashes bcrypt con un cost fijo.
type Hasher struct {
	cost int
}

// New crea un Hasher. El cost se clampa a [MinCost, MaxCost];
// cost 0 usa DefaultCost.
func New(cost int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < MinCost:
		cost = MinCost
	case cost > MaxCost:
		cost = MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost devuelve el cost efectivo.
func (h *Hasher) Cost() int { return h.cost }

// Hash devuelve el hash bcrypt del plaintext. Nunca loguea el plaintext.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara plaintext contra un hash almacenado.
// Un hash malformado devuelve false, nunca panic.
func (h *Hasher) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

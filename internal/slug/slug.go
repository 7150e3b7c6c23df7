// Package slug genera slugs url-safe para el catálogo de productos.
package slug

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmpty indica que el título no dejó nada usable después de limpiar.
var ErrEmpty = errors.New("slug: empty after normalization")

// stripDiacritics: NFD + remover marcas combinantes + NFC.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDash = regexp.MustCompile(`--+`)
)

// Make convierte un título libre en slug: sin acentos, lowercase, solo
// [a-z0-9] y guiones, sin guiones al borde ni repetidos.
// "Curso de Análisis" => "curso-de-analisis".
func Make(title string) string {
	s, _, err := transform.String(stripDiacritics, title)
	if err != nil {
		s = title
	}
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	return s
}

// Exists consulta si un slug ya está tomado (ignorando un id opcional, para
// no chocar con el propio producto en updates).
type Exists func(ctx context.Context, slug, ignoreID string) (bool, error)

// Unique genera un slug único a partir del título, agregando sufijos -2, -3...
// hasta encontrar uno libre.
func Unique(ctx context.Context, title, ignoreID string, exists Exists) (string, error) {
	root := Make(title)
	if root == "" {
		return "", ErrEmpty
	}
	candidate := root
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate, ignoreID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = root + "-" + strconv.Itoa(i)
	}
}

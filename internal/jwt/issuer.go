// Package jwt firma y valida los tokens de identidad del servicio.
//
// Un solo algoritmo permitido (HS256, secreto compartido): los ataques de
// confusión de algoritmo quedan estructuralmente fuera porque Parse pinnea
// el método con WithValidMethods.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// InsecureDevSecret es el fallback documentado cuando no hay secreto
// configurado. NO es apto para producción; main loguea fuerte si se usa.
const InsecureDevSecret = "change-me"

// DefaultTTL es la vigencia por defecto de un token (7 días).
const DefaultTTL = 7 * 24 * time.Hour

// Leeway tolerado para exp/nbf (skew de reloj entre nodos).
const Leeway = 5 * time.Second

var (
	// ErrTokenInvalid cubre firma inválida, malformación, alg inesperado,
	// issuer/audience que no matchean y subject vacío.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired se reporta separado para que el cliente pueda ofrecer
	// "volvé a iniciar sesión" en vez de un rechazo genérico.
	ErrTokenExpired = errors.New("token expired")
)

// Issuer emite y valida tokens con política fija de issuer/audience.
type Issuer struct {
	secret []byte
	iss    string // "" = no se emite ni exige
	aud    string // "" = no se emite ni exige
	ttl    time.Duration
}

// NewIssuer crea un Issuer. secret vacío usa InsecureDevSecret.
// ttl <= 0 usa DefaultTTL.
func NewIssuer(secret, iss, aud string, ttl time.Duration) *Issuer {
	if secret == "" {
		secret = InsecureDevSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), iss: iss, aud: aud, ttl: ttl}
}

// UsingInsecureSecret informa si el Issuer quedó con el fallback de dev.
func (i *Issuer) UsingInsecureSecret() bool {
	return string(i.secret) == InsecureDevSecret
}

// TTL devuelve la vigencia por defecto configurada.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue firma un token con las claims dadas. ttl <= 0 usa el default del
// Issuer. Subject/email se normalizan antes de firmar; un subject vacío
// (después de normalizar) es un error.
func (i *Issuer) Issue(c Claims, ttl time.Duration) (string, time.Time, error) {
	c = c.Normalize()
	if c.Subject == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	if ttl == 0 {
		ttl = i.ttl
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)

	mc := jwtv5.MapClaims{
		"sub":   c.Subject,
		"email": c.Email,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if c.Name != "" {
		mc["name"] = c.Name
	}
	if c.IsAdmin {
		mc["is_admin"] = true
	}
	if i.iss != "" {
		mc["iss"] = i.iss
	}
	if i.aud != "" {
		mc["aud"] = i.aud
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, mc)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, algoritmo, exp/nbf (con Leeway) e iss/aud cuando están
// configurados, y devuelve las claims normalizadas.
// Devuelve ErrTokenExpired solo para expiración; todo lo demás colapsa en
// ErrTokenInvalid.
func (i *Issuer) Parse(raw string) (Claims, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithLeeway(Leeway),
	}
	if i.iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.iss))
	}
	if i.aud != "" {
		opts = append(opts, jwtv5.WithAudience(i.aud))
	}

	tok, err := jwtv5.Parse(raw, func(t *jwtv5.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	c := Claims{}
	if v, _ := mc["sub"].(string); v != "" {
		c.Subject = v
	}
	if v, _ := mc["email"].(string); v != "" {
		c.Email = v
	}
	if v, _ := mc["name"].(string); v != "" {
		c.Name = v
	}
	if v, ok := mc["is_admin"].(bool); ok {
		c.IsAdmin = v
	}

	c = c.Normalize()
	if c.Subject == "" {
		// Un token sin identidad no sirve para nada aguas abajo.
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

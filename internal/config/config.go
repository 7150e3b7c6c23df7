package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del servicio.
// Se carga desde YAML y se puede sobreescribir con variables de entorno
// (ver ApplyEnv). Los defaults se aplican en Load.
type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		PublicBaseURL      string   `yaml:"public_base_url"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		Postgres struct {
			DSN             string `yaml:"dsn"`
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MinIdleConns    int    `yaml:"min_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		// Secreto compartido HS256. Si queda vacío se usa un fallback
		// inseguro ("change-me") y se loguea fuerte al arrancar.
		Secret   string `yaml:"secret"`
		Issuer   string `yaml:"issuer"`
		Audience string `yaml:"audience"`
		TTL      string `yaml:"ttl"`
	} `yaml:"jwt"`

	Auth struct {
		// Lista de emails admin (normalizados en Load).
		AdminEmails []string `yaml:"admin_emails"`
		Verify      struct {
			TTL time.Duration `yaml:"ttl"`
		} `yaml:"verify"`
		// BCryptCost se clampa a [8,12] en Load.
		BCryptCost int `yaml:"bcrypt_cost"`
	} `yaml:"auth"`

	Seed struct {
		AutoSeedAdmin bool   `yaml:"auto_seed_admin"`
		AdminName     string `yaml:"admin_name"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"seed"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		Signup struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"signup"`
		Resend struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"resend"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Email struct {
		// smtp | log. El driver "log" es un doble explícito de test/dev,
		// no un fallback escondido.
		Driver string `yaml:"driver"`
	} `yaml:"email"`
}

// Load lee un YAML, aplica overrides de entorno, defaults y validaciones.
// path puede ser "" (solo env + defaults).
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.ApplyEnv()

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.PublicBaseURL == "" {
		c.Server.PublicBaseURL = "http://localhost:5000"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.TTL == "" {
		c.JWT.TTL = "168h" // 7d
	}
	if c.Auth.Verify.TTL == 0 {
		c.Auth.Verify.TTL = 60 * time.Minute
	}
	c.Auth.BCryptCost = clampCost(c.Auth.BCryptCost)
	if c.Seed.AdminName == "" {
		c.Seed.AdminName = "Admin GlobyX"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.Signup.Limit == 0 {
		c.Rate.Signup.Limit = 5
	}
	if c.Rate.Signup.Window == "" {
		c.Rate.Signup.Window = "1m"
	}
	if c.Rate.Resend.Limit == 0 {
		c.Rate.Resend.Limit = 3
	}
	if c.Rate.Resend.Window == "" {
		c.Rate.Resend.Window = "10m"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "log"
	}

	// normalizar allow-list de admins (trim + lowercase, sin vacíos)
	c.Auth.AdminEmails = normalizeEmails(c.Auth.AdminEmails)

	// validar string durations
	for _, d := range []string{
		c.JWT.TTL,
		c.Rate.Login.Window, c.Rate.Signup.Window, c.Rate.Resend.Window,
		c.Cache.Memory.DefaultTTL,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("config: invalid duration %q: %w", d, err)
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// ApplyEnv sobreescribe campos con variables de entorno si están presentes.
// Los nombres vienen del deployment original (JWT_SECRET, ADMIN_EMAILS, ...).
func (c *Config) ApplyEnv() {
	setStr := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setStr(&c.App.Env, "APP_ENV")
	setStr(&c.Server.Addr, "SERVER_ADDR")
	setStr(&c.Server.PublicBaseURL, "PUBLIC_BASE_URL")
	setStr(&c.Storage.Driver, "STORAGE_DRIVER")
	setStr(&c.Storage.Postgres.DSN, "POSTGRES_DSN")
	setStr(&c.Cache.Kind, "CACHE_KIND")
	setStr(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setStr(&c.JWT.Secret, "JWT_SECRET")
	setStr(&c.JWT.Issuer, "JWT_ISSUER")
	setStr(&c.JWT.Audience, "JWT_AUDIENCE")
	setStr(&c.JWT.TTL, "TOKEN_EXPIRES_IN")
	setStr(&c.SMTP.Host, "SMTP_HOST")
	setStr(&c.SMTP.Username, "SMTP_USERNAME")
	setStr(&c.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.SMTP.From, "SMTP_FROM")
	setStr(&c.Email.Driver, "EMAIL_DRIVER")
	setStr(&c.Seed.AdminName, "ADMIN_NAME")
	setStr(&c.Seed.AdminPassword, "ADMIN_SEED_PASSWORD")

	if v := strings.TrimSpace(os.Getenv("ADMIN_EMAILS")); v != "" {
		c.Auth.AdminEmails = strings.Split(v, ",")
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		c.Server.CORSAllowedOrigins = splitCSV(v)
	}
	if v := strings.TrimSpace(os.Getenv("BCRYPT_ROUNDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Auth.BCryptCost = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("AUTO_SEED_ADMIN")); v != "" {
		c.Seed.AutoSeedAdmin = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv("RATE_ENABLED")); v != "" {
		c.Rate.Enabled = isTruthy(v)
	}
}

// JWTTTL devuelve el TTL de tokens ya parseado (Load valida el string).
func (c *Config) JWTTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.TTL)
	return d
}

// IsAdminEmail consulta la allow-list con el email ya normalizado o no.
func (c *Config) IsAdminEmail(email string) bool {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return false
	}
	for _, a := range c.Auth.AdminEmails {
		if a == e {
			return true
		}
	}
	return false
}

const (
	defaultBCryptCost = 10
	minBCryptCost     = 8
	maxBCryptCost     = 12
)

// clampCost protege contra misconfiguración del operador: ni hashes débiles
// ni logins de varios segundos.
func clampCost(n int) int {
	if n == 0 {
		return defaultBCryptCost
	}
	if n < minBCryptCost {
		return minBCryptCost
	}
	if n > maxBCryptCost {
		return maxBCryptCost
	}
	return n
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if e := strings.ToLower(strings.TrimSpace(s)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

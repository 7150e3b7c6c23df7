// Package health chequea la salud de las dependencias del servicio.
package health

import (
	"context"
	"time"

	"github.com/myglobyx/globyx-api/internal/cache"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// Component es el estado de una dependencia puntual.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok | fail
	Error  string `json:"error,omitempty"`
}

// Response es el resultado agregado del chequeo.
type Response struct {
	Status     string      `json:"status"` // ready | degraded | unavailable
	Version    string      `json:"version,omitempty"`
	Components []Component `json:"components"`
}

// Service corre los chequeos de salud.
type Service interface {
	Check(ctx context.Context) Response
}

// Deps contiene las dependencias a chequear.
type Deps struct {
	Store   core.Store
	Cache   cache.Client
	Version string
}

type service struct {
	deps Deps
}

// New crea el servicio de health.
func New(deps Deps) Service {
	return &service{deps: deps}
}

const checkTimeout = 2 * time.Second

func (s *service) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp := Response{Status: "ready", Version: s.deps.Version}

	// Storage es crítico: si falla, el servicio no está disponible.
	if s.deps.Store != nil {
		c := Component{Name: "store", Status: "ok"}
		if err := s.deps.Store.Ping(ctx); err != nil {
			c.Status = "fail"
			c.Error = err.Error()
			resp.Status = "unavailable"
		}
		resp.Components = append(resp.Components, c)
	}

	// Cache caído degrada (el rate limiting degrada a abierto) pero no tumba.
	if s.deps.Cache != nil {
		c := Component{Name: "cache", Status: "ok"}
		if err := s.deps.Cache.Ping(ctx); err != nil {
			c.Status = "fail"
			c.Error = err.Error()
			if resp.Status == "ready" {
				resp.Status = "degraded"
			}
		}
		resp.Components = append(resp.Components, c)
	}

	return resp
}

// Package memory implementa los repositorios en memoria, para tests y dev.
// Misma semántica que pg: unicidad por clave y consumos atómicos, acá
// garantizados por mutex en lugar de unique index.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

type Store struct {
	users    *UserRepo
	products *ProductRepo
	grants   *GrantRepo
}

func New() *Store {
	return &Store{
		users:    &UserRepo{byEmail: make(map[string]*core.User)},
		products: &ProductRepo{byID: make(map[string]*core.Product)},
		grants:   &GrantRepo{byKey: make(map[string]*core.Grant)},
	}
}

func (s *Store) Users() core.UserRepository       { return s.users }
func (s *Store) Products() core.ProductRepository { return s.products }
func (s *Store) Grants() core.GrantRepository     { return s.grants }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

// ─── Users ───

type UserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*core.User
}

func cloneUser(u *core.User) *core.User {
	cp := *u
	if u.Address != nil {
		a := *u.Address
		cp.Address = &a
	}
	if u.VerificationHash != nil {
		cp.VerificationHash = append([]byte(nil), u.VerificationHash...)
	}
	return &cp
}

func (r *UserRepo) Create(_ context.Context, u *core.User) error {
	email := jwtx.NormalizeEmail(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return core.ErrEmailInUse
	}
	u.Email = email
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.byEmail[email] = cloneUser(u)
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[jwtx.NormalizeEmail(email)]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, email string, patch core.ProfilePatch) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[jwtx.NormalizeEmail(email)]
	if !ok {
		return nil, core.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Birthdate != nil {
		u.Birthdate = *patch.Birthdate
	}
	if patch.Document != nil {
		u.Document = *patch.Document
	}
	if patch.Address != nil {
		a := *patch.Address
		u.Address = &a
	}
	now := time.Now()
	u.UpdatedAt = &now
	return cloneUser(u), nil
}

func (r *UserRepo) UpsertPassword(_ context.Context, name, email, passwordHash string) (*core.User, error) {
	email = jwtx.NormalizeEmail(email)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if u, ok := r.byEmail[email]; ok {
		u.Name = name
		u.PasswordHash = passwordHash
		u.IsVerified = true
		u.UpdatedAt = &now
		return cloneUser(u), nil
	}
	u := &core.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   true,
		CreatedAt:    now,
	}
	r.byEmail[email] = u
	return cloneUser(u), nil
}

func (r *UserRepo) SetVerification(_ context.Context, email string, tokenHash []byte, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[jwtx.NormalizeEmail(email)]
	if !ok {
		return core.ErrNotFound
	}
	u.VerificationHash = append([]byte(nil), tokenHash...)
	exp := expiresAt
	u.VerificationExpires = &exp
	now := time.Now()
	u.UpdatedAt = &now
	return nil
}

func (r *UserRepo) ConsumeVerification(_ context.Context, tokenHash []byte) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.byEmail {
		if u.IsVerified || u.VerificationHash == nil || u.VerificationExpires == nil {
			continue
		}
		if !bytes.Equal(u.VerificationHash, tokenHash) {
			continue
		}
		if !u.VerificationExpires.After(now) {
			// expirado: inerte, sin efectos
			return "", false, nil
		}
		u.IsVerified = true
		u.VerificationHash = nil
		u.VerificationExpires = nil
		u.UpdatedAt = &now
		return u.Email, true, nil
	}
	return "", false, nil
}

// ─── Products ───

type ProductRepo struct {
	mu   sync.Mutex
	byID map[string]*core.Product
}

func (r *ProductRepo) Create(_ context.Context, p *core.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.byID {
		if q.Slug == p.Slug {
			return core.ErrConflict
		}
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *ProductRepo) Update(_ context.Context, id string, patch core.ProductPatch) (*core.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.MediaURL != nil {
		p.MediaURL = *patch.MediaURL
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.LandingPageURL != nil {
		p.LandingPageURL = *patch.LandingPageURL
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		p.Subcategory = *patch.Subcategory
	}
	if patch.Price != nil {
		v := *patch.Price
		p.Price = &v
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	now := time.Now()
	p.UpdatedAt = &now
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) UpdateSlug(_ context.Context, id, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	p.Slug = slug
	now := time.Now()
	p.UpdatedAt = &now
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*core.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) FindBySlug(_ context.Context, slug string) (*core.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *ProductRepo) All(_ context.Context) ([]core.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(*core.Product) bool { return true }), nil
}

func (r *ProductRepo) Active(_ context.Context) ([]core.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *core.Product) bool { return p.Active }), nil
}

func (r *ProductRepo) SlugExists(_ context.Context, slug, ignoreID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Slug == slug && p.ID != ignoreID {
			return true, nil
		}
	}
	return false, nil
}

// sorted devuelve copias filtradas, created_at descendente.
func (r *ProductRepo) sorted(keep func(*core.Product) bool) []core.Product {
	var out []core.Product
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sortByCreatedDesc(out, func(p core.Product) time.Time { return p.CreatedAt })
	return out
}

// ─── Grants ───

type GrantRepo struct {
	mu    sync.Mutex
	byKey map[string]*core.Grant
}

func (r *GrantRepo) Grant(_ context.Context, email, productID string, expiresAt *time.Time) (*core.Grant, error) {
	email = jwtx.NormalizeEmail(email)
	key := core.GrantID(email, productID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.byKey[key]; ok {
		// idempotente: devolver el existente sin modificarlo
		cp := *g
		return &cp, nil
	}
	g := &core.Grant{
		ID:        key,
		Email:     email,
		ProductID: productID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	r.byKey[key] = g
	cp := *g
	return &cp, nil
}

func (r *GrantRepo) Revoke(_ context.Context, email, productID string) (bool, error) {
	key := core.GrantID(jwtx.NormalizeEmail(email), productID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[key]; !ok {
		return false, nil
	}
	delete(r.byKey, key)
	return true, nil
}

func (r *GrantRepo) ListForEmail(_ context.Context, email string) ([]core.Grant, error) {
	email = jwtx.NormalizeEmail(email)
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Grant
	for _, g := range r.byKey {
		if g.Email == email {
			out = append(out, *g)
		}
	}
	sortByCreatedDesc(out, func(g core.Grant) time.Time { return g.CreatedAt })
	return out, nil
}

func (r *GrantRepo) ListAll(_ context.Context) ([]core.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Grant, 0, len(r.byKey))
	for _, g := range r.byKey {
		out = append(out, *g)
	}
	sortByCreatedDesc(out, func(g core.Grant) time.Time { return g.CreatedAt })
	return out, nil
}

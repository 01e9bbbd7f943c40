// Package session es el proveedor de identidad: login, registro, logout y
// la identidad en curso. Mantiene una entrada de sesión por usuario en el KV
// local; sin esa entrada el token deja de ser válido.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Config tiempos y firma de la sesión.
type Config struct {
	JWT            JWTConfig
	ProfileTimeout time.Duration
	TTL            time.Duration
}

// Provider casos de uso de identidad.
type Provider struct {
	identities repository.IdentityRepository
	kv         ports.KVStore
	cfg        Config
	log        zerolog.Logger
	now        func() time.Time
}

// NewProvider construye el proveedor de sesión.
func NewProvider(identities repository.IdentityRepository, kv ports.KVStore, cfg Config, log zerolog.Logger) *Provider {
	if cfg.ProfileTimeout <= 0 {
		cfg.ProfileTimeout = 5 * time.Second
	}
	return &Provider{identities: identities, kv: kv, cfg: cfg, log: log, now: time.Now}
}

// entry identidad cacheada en el KV (clave session:<id>).
type entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	StoreID   string    `json:"store_id,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	LoginAt   time.Time `json:"login_at"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(userID string) string { return "session:" + userID }

func toEntry(i *entity.Identity, at time.Time) entry {
	return entry{
		ID: i.ID, Name: i.Name, Email: i.Email, Role: i.Role, StoreID: i.StoreID,
		Phone: i.Phone, IsActive: i.IsActive, LoginAt: at, CreatedAt: i.CreatedAt,
	}
}

func (e entry) identity() *entity.Identity {
	at := e.LoginAt
	return &entity.Identity{
		ID: e.ID, Name: e.Name, Email: e.Email, Role: e.Role, StoreID: e.StoreID,
		Phone: e.Phone, IsActive: e.IsActive, LastLoginAt: &at, CreatedAt: e.CreatedAt,
	}
}

// Login verifica email/password, registra fecha y ubicación del acceso, abre la
// sesión en el KV y devuelve el token. Credenciales inválidas (o perfil no
// encontrado a tiempo) devuelven ErrUnauthorized; perfil inactivo ErrForbidden.
func (p *Provider) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := p.lookup(ctx, func(ctx context.Context) (*entity.Identity, error) {
		return p.identities.GetByEmail(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(p.cfg.JWT.Secret, user.ID, user.StoreID, user.Role, p.cfg.JWT.Issuer, p.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	if err := p.identities.TouchLogin(ctx, user.ID, now, in.Location); err != nil {
		p.log.Warn().Err(err).Str("user_id", user.ID).Msg("registrar último acceso")
	}
	user.LastLoginAt = &now
	user.LastLocation = in.Location
	if err := ports.SetJSON(ctx, p.kv, sessionKey(user.ID), toEntry(user, now), p.cfg.TTL); err != nil {
		return nil, fmt.Errorf("abrir sesión: %w", err)
	}
	p.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login")
	return &dto.LoginResponse{Token: token, User: *ToUserResponse(user)}, nil
}

// Register crea una identidad con rol client. No devuelve error: el fallo viaja
// en RegisterResult.Error como clave de mensaje localizable.
func (p *Provider) Register(ctx context.Context, in dto.RegisterRequest) dto.RegisterResult {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || len(in.Password) < 8 {
		return dto.RegisterResult{Error: preferences.MsgInvalidInput}
	}
	existing, err := p.lookup(ctx, func(ctx context.Context) (*entity.Identity, error) {
		return p.identities.GetByEmail(ctx, email)
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("registro: buscar email")
		return dto.RegisterResult{Error: preferences.MsgConnectionFailed}
	}
	if existing != nil {
		return dto.RegisterResult{Error: preferences.MsgEmailTaken}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.RegisterResult{Error: preferences.MsgRegisterFailed}
	}
	now := p.now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.Identity{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleClient,
		IsActive:     true,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.identities.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) || errors.Is(err, domain.ErrDuplicate) {
			return dto.RegisterResult{Error: preferences.MsgEmailTaken}
		}
		p.log.Error().Err(err).Msg("registro: crear identidad")
		return dto.RegisterResult{Error: preferences.MsgRegisterFailed}
	}
	return dto.RegisterResult{Success: true, User: ToUserResponse(user)}
}

// Logout cierra la sesión. Sin identidad no hace nada.
func (p *Provider) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := p.kv.Delete(ctx, sessionKey(userID)); err != nil {
		return fmt.Errorf("cerrar sesión: %w", err)
	}
	return nil
}

// Active informa si el usuario tiene una sesión abierta.
func (p *Provider) Active(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, ok, err := p.kv.Get(ctx, sessionKey(userID))
	return ok, err
}

// Current devuelve la identidad en curso: primero la caché de sesión y si no
// el backend. (nil, nil) si no hay sesión o el perfil no existe.
func (p *Provider) Current(ctx context.Context, userID string) (*entity.Identity, error) {
	if userID == "" {
		return nil, nil
	}
	var e entry
	ok, err := ports.GetJSON(ctx, p.kv, sessionKey(userID), &e)
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", userID).Msg("leer sesión")
	}
	if ok {
		return e.identity(), nil
	}
	return p.lookup(ctx, func(ctx context.Context) (*entity.Identity, error) {
		return p.identities.GetByID(ctx, userID)
	})
}

// UpdateProfile edita nombre y teléfono del propio perfil y refresca la sesión.
func (p *Provider) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := p.lookup(ctx, func(ctx context.Context) (*entity.Identity, error) {
		return p.identities.GetByID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := p.identities.Update(ctx, user); err != nil {
		return nil, err
	}
	if ok, _ := p.Active(ctx, userID); ok {
		at := p.now().UTC()
		if user.LastLoginAt != nil {
			at = *user.LastLoginAt
		}
		if err := ports.SetJSON(ctx, p.kv, sessionKey(userID), toEntry(user, at), p.cfg.TTL); err != nil {
			p.log.Warn().Err(err).Str("user_id", userID).Msg("refrescar sesión")
		}
	}
	return ToUserResponse(user), nil
}

// lookup ejecuta la consulta de perfil con el timeout configurado. Si vence,
// el perfil se trata como no encontrado.
func (p *Provider) lookup(ctx context.Context, fn func(context.Context) (*entity.Identity, error)) (*entity.Identity, error) {
	lctx, cancel := context.WithTimeout(ctx, p.cfg.ProfileTimeout)
	defer cancel()

	type result struct {
		identity *entity.Identity
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		i, err := fn(lctx)
		ch <- result{i, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			p.log.Warn().Dur("timeout", p.cfg.ProfileTimeout).Msg("consulta de perfil vencida")
			return nil, nil
		}
		return r.identity, r.err
	case <-lctx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.log.Warn().Dur("timeout", p.cfg.ProfileTimeout).Msg("consulta de perfil vencida")
		return nil, nil
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToUserResponse convierte la identidad en su salida pública.
func ToUserResponse(u *entity.Identity) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		IsActive:     u.IsActive,
		StoreID:      u.StoreID,
		Phone:        u.Phone,
		LastLoginAt:  u.LastLoginAt,
		LastLocation: u.LastLocation,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// List lista las identidades (vista de usuarios, solo administradores). Pide
// una fila de más para saber si hay otra página.
func (p *Provider) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := p.identities.List(ctx, page.Limit+1, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items:        make([]*dto.UserResponse, 0, len(users)),
		PageResponse: dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	if len(users) > page.Limit {
		users = users[:page.Limit]
		out.HasMore = true
	}
	for _, u := range users {
		out.Items = append(out.Items, ToUserResponse(u))
	}
	return out, nil
}

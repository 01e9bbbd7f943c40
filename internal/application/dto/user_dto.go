package dto

import "time"

// RegisterRequest entrada de registro público; el rol siempre es client.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// RegisterResult resultado del registro. Error es la clave del mensaje localizado.
type RegisterResult struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
}

// UserResponse salida de una identidad (sin password).
type UserResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	StoreID      string     `json:"store_id,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLocation string     `json:"last_location,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LoginRequest entrada de login. Location es la ubicación declarada por el cliente.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Location string `json:"location"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest edición del propio perfil.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UserListResponse página de identidades.
type UserListResponse struct {
	Items []*UserResponse `json:"items"`
	PageResponse
}

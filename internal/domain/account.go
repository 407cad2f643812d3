package domain

import "time"

// PendingToken es un token de un solo uso junto con su vencimiento.
// Un puntero nil significa que no hay verificacion o reset pendiente.
type PendingToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reporta si el token sigue vigente en now. El vencimiento es estricto:
// un token que vence exactamente en now ya no es valido.
func (t *PendingToken) ValidAt(now time.Time) bool {
	return t != nil && t.ExpiresAt.After(now)
}

// Account es el registro persistido de una identidad con sus credenciales.
type Account struct {
	ID           string
	Email        string
	Name         string
	Image        string
	PasswordHash *string
	IsVerified   bool
	Verification *PendingToken
	Reset        *PendingToken
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword indica si la cuenta admite login con password local.
func (a Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// Profile es la proyeccion publica de una cuenta, sin secretos.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Image       string    `json:"image"`
	IsVerified  bool      `json:"is_verified"`
	HasPassword bool      `json:"has_password"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile construye la proyeccion publica de la cuenta.
func (a Account) Profile() Profile {
	return Profile{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Image:       a.Image,
		IsVerified:  a.IsVerified,
		HasPassword: a.HasPassword(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// PublicIdentity es lo minimo que devuelve un login exitoso.
type PublicIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthenticatedIdentity es la identidad que el proveedor de sesion ya valido.
type AuthenticatedIdentity struct {
	Email string
	Name  string
}

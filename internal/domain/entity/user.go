package entity

import (
	"fmt"
	"time"
)

// Role capacidad del usuario, resuelta una sola vez al autenticar.
type Role string

const (
	// RoleAdministrator puede crear, modificar y eliminar.
	RoleAdministrator Role = "administrador"
	// RoleReadOnlyViewer (usuario externo) solo consulta y descarga reportes.
	RoleReadOnlyViewer Role = "externo"
)

// ParseRole convierte el claim textual en un Role tipado.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdministrator, RoleReadOnlyViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// CanWrite indica si el rol permite operaciones de escritura.
func (r Role) CanWrite() bool { return r == RoleAdministrator }

// User representa un usuario del sistema.
type User struct {
	ID           string
	CompanyID    string // opcional: empresa a la que pertenece
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	Name         string
	Role         Role
	Status       Status
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanWrite indica si el usuario está activo y es administrador.
func (u *User) CanWrite() bool {
	return u.Status.IsActive() && u.Role.CanWrite()
}

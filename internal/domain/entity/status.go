package entity

import "fmt"

// Status estado de activación de un agregado (empresa, producto, usuario).
// Reemplaza la bandera booleana "activo": la baja lógica es un estado explícito.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus valida un estado textual.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive:
		return Status(s), nil
	}
	return "", fmt.Errorf("estado desconocido %q", s)
}

// IsActive indica si el estado es activo.
func (s Status) IsActive() bool { return s == StatusActive }

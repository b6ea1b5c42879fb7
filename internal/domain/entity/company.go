package entity

import "time"

// Company representa una empresa registrada (NIT colombiano único).
type Company struct {
	ID        string
	NIT       string // solo dígitos, normalizado
	Name      string
	Address   string
	Phone     string
	Email     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activate marca la empresa como activa.
func (c *Company) Activate(now time.Time) {
	c.Status = StatusActive
	c.UpdatedAt = now
}

// Deactivate da de baja lógica a la empresa.
func (c *Company) Deactivate(now time.Time) {
	c.Status = StatusInactive
	c.UpdatedAt = now
}

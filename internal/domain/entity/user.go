package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// ValidRole indica si el rol existe.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// NormalizeRole mayúsculas; vacío equivale a USER.
func NormalizeRole(r string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	if r == "" {
		return RoleUser
	}
	return r
}

// User operador del sistema de conteo.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

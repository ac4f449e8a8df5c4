package model

// Rol is the numeric role stored in user.role_id.
type Rol int

const (
	RolAdministrador Rol = 1
	RolComprador     Rol = 2
	RolVendedor      Rol = 3
)

// String returns the Spanish role name used in API payloads.
func (r Rol) String() string {
	switch r {
	case RolAdministrador:
		return "administrador"
	case RolComprador:
		return "comprador"
	case RolVendedor:
		return "vendedor"
	default:
		return ""
	}
}

// RolDesdeID maps a role_id to a Rol. Unknown or missing ids degrade to
// comprador, never to a more privileged role.
func RolDesdeID(id *int) Rol {
	if id == nil {
		return RolComprador
	}
	switch Rol(*id) {
	case RolAdministrador, RolComprador, RolVendedor:
		return Rol(*id)
	default:
		return RolComprador
	}
}

// Usuario is the local profile row bound to an identity (table "user").
// Its numeric ID keys orders, products and ratings.
type Usuario struct {
	ID       int    `gorm:"primaryKey;autoIncrement"`
	UUID     string `gorm:"column:uuid;type:uuid;uniqueIndex;not null"`
	Nombre   string `gorm:"column:name;not null"`
	Apellido string `gorm:"column:lastname;not null"`
	Email    string `gorm:"column:email"`
	Celular  string `gorm:"column:cell"`
	RolID    *int   `gorm:"column:role_id"`
}

func (Usuario) TableName() string { return "user" }

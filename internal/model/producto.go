package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a vendor-owned catalog item. ID is an opaque string (uuid text).
// Invariants: Stock >= 0, Precio > 0.
type Producto struct {
	ID          string          `gorm:"primaryKey"`
	Nombre      string          `gorm:"column:name;index;not null"`
	Precio      decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	CategoriaID int             `gorm:"column:id_category;not null"`
	VendedorID  int             `gorm:"column:id_vendor;index;not null"`
	Features    *string         `gorm:"column:features"`
	CreatedAt   time.Time       `gorm:"column:created_at"`

	Categoria  *Categoria   `gorm:"foreignKey:CategoriaID"`
	Vendedor   *Usuario     `gorm:"foreignKey:VendedorID"`
	Multimedia []Multimedia `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "product" }

package model

// Categoria is static reference data for products.
type Categoria struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Nombre      string `gorm:"column:name;uniqueIndex;not null"`
	Descripcion string `gorm:"column:description"`
}

// TableName keeps the original table name instead of GORM's pluralization.
func (Categoria) TableName() string { return "category" }

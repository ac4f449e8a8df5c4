package model

// Multimedia is an image record attached to a product; Src is the public URL.
type Multimedia struct {
	ID         string `gorm:"primaryKey"`
	Alt        string `gorm:"column:alt"`
	Src        string `gorm:"column:src;not null"`
	ProductoID string `gorm:"column:id_product;index;not null"`
}

func (Multimedia) TableName() string { return "multimedia" }

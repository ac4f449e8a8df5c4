package model

// Calificacion is a buyer's rating of a vendor. Valor is a string-encoded 1..5
// and Fecha a YYYY-MM-DD date.
type Calificacion struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	ClienteID  int    `gorm:"column:id_customer;index;not null"`
	VendedorID int    `gorm:"column:id_vendor;index;not null"`
	Valor      string `gorm:"column:value;not null"`
	Fecha      string `gorm:"column:date;type:date;not null"`
}

func (Calificacion) TableName() string { return "rating" }

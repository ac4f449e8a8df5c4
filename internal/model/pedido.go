package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status codes (payment.status).
const (
	PagoPendiente = "PE"
	PagoAprobado  = "AP"
	PagoRechazado = "RE"
	PagoCancelado = "CA"
)

// Order state codes (order.state).
const (
	PedidoPendiente = "PEN"
	PedidoPagado    = "PAG"
	PedidoCancelado = "CAN"
	PedidoFallido   = "FAL"
)

// Pago is created first in the checkout sequence, always in PagoPendiente.
// Later transitions are driven by the payment provider.
type Pago struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Estado       string    `gorm:"column:status;type:varchar(2);not null"`
	MetodoPagoID int       `gorm:"column:id_payment_method;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (Pago) TableName() string { return "payment" }

// Pedido references its Pago and the numeric customer id.
type Pedido struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	ClienteID int       `gorm:"column:id_customer;index;not null"`
	PagoID    string    `gorm:"column:id_payment;type:uuid;not null"`
	Estado    string    `gorm:"column:state;type:varchar(3);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`

	Pago  *Pago        `gorm:"foreignKey:PagoID"`
	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "order" }

// PedidoItem is one order line; PrecioTotal = product price * Cantidad at checkout.
type PedidoItem struct {
	ID          int             `gorm:"primaryKey;autoIncrement"`
	PedidoID    int             `gorm:"column:id_order;index;not null"`
	ProductoID  string          `gorm:"column:id_product;not null"`
	Cantidad    int             `gorm:"column:quantity;not null"`
	PrecioTotal decimal.Decimal `gorm:"column:total_price;type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoItem) TableName() string { return "order_item" }

// EstadoPedidoLegible returns the Spanish label for an order state code.
func EstadoPedidoLegible(estado string) string {
	switch estado {
	case PedidoPendiente:
		return "Pendiente"
	case PedidoPagado:
		return "Pagada"
	case PedidoCancelado:
		return "Cancelada"
	case PedidoFallido:
		return "Fallida"
	case "":
		return "Desconocido"
	default:
		return estado
	}
}

// EstadoPagoLegible returns the Spanish label for a payment status code.
func EstadoPagoLegible(estado string) string {
	switch estado {
	case PagoPendiente:
		return "Pendiente"
	case PagoAprobado:
		return "Aprobado"
	case PagoRechazado:
		return "Rechazado"
	case PagoCancelado:
		return "Cancelado"
	case "":
		return "Desconocido"
	default:
		return estado
	}
}

// MetodoPago is reference data for payment.id_payment_method.
type MetodoPago struct {
	ID     int    `gorm:"primaryKey;autoIncrement"`
	Nombre string `gorm:"column:name;uniqueIndex;not null"`
}

func (MetodoPago) TableName() string { return "payment_method" }

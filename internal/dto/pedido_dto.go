package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PagoResponse struct {
	ID            string `json:"id"`
	Estado        string `json:"estado"`
	EstadoLegible string `json:"estado_legible"`
}

type PedidoItemResponse struct {
	ID             int             `json:"id"`
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	VendedorID     *int            `json:"vendedor_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
}

type PedidoResponse struct {
	ID            int                  `json:"id"`
	Estado        string               `json:"estado"`
	EstadoLegible string               `json:"estado_legible"`
	CreatedAt     time.Time            `json:"created_at"`
	Pago          *PagoResponse        `json:"pago"`
	Items         []PedidoItemResponse `json:"items"`
	Total         decimal.Decimal      `json:"total"`
	TotalItems    int                  `json:"total_items"`
}

// EstadoPedidoResponse feeds the success/failure/pending return pages.
type EstadoPedidoResponse struct {
	Variante            string         `json:"variante"`
	Titulo              string         `json:"titulo"`
	Subtitulo           string         `json:"subtitulo"`
	Accion              string         `json:"accion"`
	Pedido              PedidoResponse `json:"pedido"`
	CarritoVaciado      bool           `json:"carrito_vaciado"`
	CalificarVendedorID *int           `json:"calificar_vendedor_id"`
}

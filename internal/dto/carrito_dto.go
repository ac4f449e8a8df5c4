package dto

import "github.com/shopspring/decimal"

type AgregarItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required"`
	Cantidad   int    `json:"cantidad"    validate:"omitempty,min=1"`
}

// ActualizarCantidadRequest accepts zero or negative values; they remove the line.
type ActualizarCantidadRequest struct {
	Cantidad int `json:"cantidad"`
}

type CarritoAbiertoRequest struct {
	Abierto *bool `json:"abierto" validate:"required"`
}

type CarritoItemResponse struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Stock      int             `json:"stock"`
	ImagenURL  string          `json:"imagen_url,omitempty"`
	Cantidad   int             `json:"cantidad"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	Items       []CarritoItemResponse `json:"items"`
	TotalItems  int                   `json:"total_items"`
	TotalPrecio decimal.Decimal       `json:"total_precio"`
	Abierto     bool                  `json:"abierto"`
	Mensaje     string                `json:"mensaje,omitempty"`
}

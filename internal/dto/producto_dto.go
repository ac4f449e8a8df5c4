package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	Precio      decimal.Decimal `json:"precio"       validate:"required,gte=0.01"`
	Stock       int             `json:"stock"        validate:"min=0"`
	CategoriaID int             `json:"categoria_id" validate:"required,min=1"`
	Features    *string         `json:"features"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Precio      *decimal.Decimal `json:"precio"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	CategoriaID *int             `json:"categoria_id" validate:"omitempty,min=1"`
	Features    *string          `json:"features"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	CategoriaID int `form:"categoria" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ImagenResponse struct {
	ID  string `json:"id"`
	Alt string `json:"alt"`
	Src string `json:"src"`
}

type ProductoResponse struct {
	ID          string             `json:"id"`
	Nombre      string             `json:"nombre"`
	Precio      decimal.Decimal    `json:"precio"`
	Stock       int                `json:"stock"`
	CategoriaID int                `json:"categoria_id"`
	Categoria   *CategoriaResponse `json:"categoria,omitempty"`
	VendedorID  int                `json:"vendedor_id"`
	Features    *string            `json:"features"`
	CreatedAt   time.Time          `json:"created_at"`
	Imagenes    []ImagenResponse   `json:"imagenes"`
}

package service

import (
	"context"
	"errors"
	"fmt"

	"bogogo/internal/cart"
	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"gorm.io/gorm"
)

var ErrProductoNoEncontrado = errors.New("Producto no encontrado")

// CarritoService operates the per-browser cart persisted in Redis.
// Every response carries the live totals; non-silent mutations add a toast
// message.
type CarritoService interface {
	Obtener(ctx context.Context, carritoID string) (*dto.CarritoResponse, error)
	Agregar(ctx context.Context, carritoID string, req dto.AgregarItemRequest) (*dto.CarritoResponse, error)
	ActualizarCantidad(ctx context.Context, carritoID, productoID string, cantidad int) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, carritoID, productoID string) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, carritoID string, silencioso bool) (*dto.CarritoResponse, error)
	SetAbierto(ctx context.Context, carritoID string, abierto bool) (*dto.CarritoResponse, error)
}

type carritoService struct {
	carritos  repository.CarritoRepository
	productos repository.ProductoRepository
}

func NewCarritoService(carritos repository.CarritoRepository, productos repository.ProductoRepository) CarritoService {
	return &carritoService{carritos: carritos, productos: productos}
}

func (s *carritoService) Obtener(ctx context.Context, carritoID string) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Get(ctx, carritoID)
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c, ""), nil
}

// Agregar snapshots the product as currently stored. Stock is not enforced
// here; checkout re-validates it against the database.
func (s *carritoService) Agregar(ctx context.Context, carritoID string, req dto.AgregarItemRequest) (*dto.CarritoResponse, error) {
	p, err := s.productos.FindByID(ctx, req.ProductoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, fmt.Errorf("buscando producto: %w", err)
	}

	c, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Agregar(productoDeCarrito(p), req.Cantidad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c, fmt.Sprintf("%s agregado al carrito", p.Nombre)), nil
}

func (s *carritoService) ActualizarCantidad(ctx context.Context, carritoID, productoID string, cantidad int) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.ActualizarCantidad(productoID, cantidad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	msg := "Cantidad actualizada"
	if cantidad <= 0 {
		msg = "Producto eliminado del carrito"
	}
	return carritoToResponse(c, msg), nil
}

func (s *carritoService) Quitar(ctx context.Context, carritoID, productoID string) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Quitar(productoID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c, "Producto eliminado del carrito"), nil
}

// Vaciar empties the cart. silencioso suppresses the toast; it is used after
// a confirmed payment.
func (s *carritoService) Vaciar(ctx context.Context, carritoID string, silencioso bool) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Vaciar()
		return nil
	})
	if err != nil {
		return nil, err
	}
	msg := "Carrito vaciado"
	if silencioso {
		msg = ""
	}
	return carritoToResponse(c, msg), nil
}

func (s *carritoService) SetAbierto(ctx context.Context, carritoID string, abierto bool) (*dto.CarritoResponse, error) {
	c, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Abierto = abierto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c, ""), nil
}

func productoDeCarrito(p *model.Producto) cart.Producto {
	cp := cart.Producto{
		ID:         p.ID,
		Nombre:     p.Nombre,
		Precio:     p.Precio,
		Stock:      p.Stock,
		VendedorID: p.VendedorID,
	}
	if len(p.Multimedia) > 0 {
		cp.ImagenURL = p.Multimedia[0].Src
	}
	return cp
}

func carritoToResponse(c *cart.Carrito, mensaje string) *dto.CarritoResponse {
	items := make([]dto.CarritoItemResponse, 0, len(c.Lineas))
	for _, l := range c.Lineas {
		items = append(items, dto.CarritoItemResponse{
			ProductoID: l.Producto.ID,
			Nombre:     l.Producto.Nombre,
			Precio:     l.Producto.Precio,
			Stock:      l.Producto.Stock,
			ImagenURL:  l.Producto.ImagenURL,
			Cantidad:   l.Cantidad,
			Subtotal:   l.Subtotal(),
		})
	}
	return &dto.CarritoResponse{
		Items:       items,
		TotalItems:  c.TotalItems(),
		TotalPrecio: c.TotalPrecio(),
		Abierto:     c.Abierto,
		Mensaje:     mensaje,
	}
}

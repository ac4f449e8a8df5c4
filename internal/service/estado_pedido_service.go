package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bogogo/internal/cart"
	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	VarianteSuccess = "success"
	VarianteFailure = "failure"
	VariantePending = "pending"
)

var (
	ErrVarianteInvalida   = errors.New("Página de estado desconocida")
	ErrPedidoSinID        = errors.New("No se encontró el identificador de la orden.")
	ErrCargandoPedido     = errors.New("Error cargando la orden")
	ErrPedidoNoEncontrado = errors.New("Orden no encontrada")
)

const (
	vaciadoGuardTTL = 24 * time.Hour
	reciboGuardTTL  = 30 * 24 * time.Hour
)

type varianteConfig struct {
	titulo    string
	subtitulo string
	accion    string
}

var variantes = map[string]varianteConfig{
	VarianteSuccess: {
		titulo:    "¡Pago completado!",
		subtitulo: "Tu orden fue procesada correctamente. Te enviaremos un correo con los detalles de la compra.",
		accion:    "seguir_comprando",
	},
	VarianteFailure: {
		titulo:    "El pago no se pudo completar",
		subtitulo: "Hubo un problema al procesar tu pago. Puedes intentar nuevamente o usar otro método.",
		accion:    "reintentar",
	},
	VariantePending: {
		titulo:    "Pago pendiente",
		subtitulo: "Tu pago está siendo procesado. Te notificaremos cuando se confirme.",
		accion:    "refrescar",
	},
}

// EstadoPedidoService backs the three payment return pages and the order history.
type EstadoPedidoService interface {
	// Ver loads the order for a return page. On success with a paid order it
	// clears the cart silently at most once per (order, cart) and enqueues
	// the receipt at most once per order.
	Ver(ctx context.Context, variante, pedidoIDRaw, carritoID, identidadID string) (*dto.EstadoPedidoResponse, error)
	Listar(ctx context.Context, identidadID string) ([]dto.PedidoResponse, error)
}

type estadoPedidoService struct {
	pedidos  repository.PedidoRepository
	usuarios repository.UsuarioRepository
	carritos repository.CarritoRepository
	guard    repository.Guard
	jobs     Jobs
}

func NewEstadoPedidoService(
	pedidos repository.PedidoRepository,
	usuarios repository.UsuarioRepository,
	carritos repository.CarritoRepository,
	guard repository.Guard,
	jobs Jobs,
) EstadoPedidoService {
	return &estadoPedidoService{pedidos: pedidos, usuarios: usuarios, carritos: carritos, guard: guard, jobs: jobs}
}

func (s *estadoPedidoService) Ver(ctx context.Context, variante, pedidoIDRaw, carritoID, identidadID string) (*dto.EstadoPedidoResponse, error) {
	cfg, ok := variantes[variante]
	if !ok {
		return nil, ErrVarianteInvalida
	}
	pedidoID, err := strconv.Atoi(strings.TrimSpace(pedidoIDRaw))
	if err != nil || pedidoID <= 0 {
		return nil, ErrPedidoSinID
	}

	clienteID, err := s.clienteID(ctx, identidadID)
	if err != nil {
		return nil, err
	}

	pedido, err := s.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPedidoNoEncontrado
		}
		log.Error().Err(err).Int("order_id", pedidoID).Msg("estado_pedido: error cargando la orden")
		return nil, ErrCargandoPedido
	}
	if pedido.ClienteID != clienteID {
		return nil, ErrPedidoNoEncontrado
	}

	resp := &dto.EstadoPedidoResponse{
		Variante:  variante,
		Titulo:    cfg.titulo,
		Subtitulo: cfg.subtitulo,
		Accion:    cfg.accion,
		Pedido:    pedidoToResponse(pedido),
	}
	if variante != VarianteSuccess {
		return resp, nil
	}

	if pedido.Estado == model.PedidoPagado {
		resp.CarritoVaciado = s.vaciarUnaVez(ctx, pedido.ID, carritoID)
		s.reciboUnaVez(ctx, pedido.ID)
	}
	resp.CalificarVendedorID = primerVendedor(pedido)
	return resp, nil
}

func (s *estadoPedidoService) Listar(ctx context.Context, identidadID string) ([]dto.PedidoResponse, error) {
	usuario, err := s.usuarios.FindByUUID(ctx, identidadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.PedidoResponse{}, nil
		}
		return nil, fmt.Errorf("buscando usuario: %w", err)
	}
	pedidos, err := s.pedidos.ListByCliente(ctx, usuario.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, pedidoToResponse(&pedidos[i]))
	}
	return out, nil
}

// clienteID resolves the numeric customer behind the identity. Anonymous
// callers and identities without a profile row see no order at all.
func (s *estadoPedidoService) clienteID(ctx context.Context, identidadID string) (int, error) {
	if identidadID == "" {
		return 0, ErrPedidoNoEncontrado
	}
	u, err := s.usuarios.FindByUUID(ctx, identidadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPedidoNoEncontrado
		}
		log.Error().Err(err).Str("identity_id", identidadID).Msg("estado_pedido: error cargando el cliente")
		return 0, ErrCargandoPedido
	}
	return u.ID, nil
}

func (s *estadoPedidoService) vaciarUnaVez(ctx context.Context, pedidoID int, carritoID string) bool {
	if carritoID == "" {
		return false
	}
	c, err := s.carritos.Get(ctx, carritoID)
	if err != nil || c.Vacio() {
		return false
	}
	key := fmt.Sprintf("pedido:%d:carrito:%s:vaciado", pedidoID, carritoID)
	ok, err := s.guard.Acquire(ctx, key, vaciadoGuardTTL)
	if err != nil || !ok {
		return false
	}
	if _, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Vaciar()
		return nil
	}); err != nil {
		log.Error().Err(err).Int("order_id", pedidoID).Msg("estado_pedido: no se pudo vaciar el carrito")
		_ = s.guard.Release(ctx, key)
		return false
	}
	return true
}

func (s *estadoPedidoService) reciboUnaVez(ctx context.Context, pedidoID int) {
	if s.jobs == nil {
		return
	}
	key := fmt.Sprintf("pedido:%d:recibo", pedidoID)
	ok, err := s.guard.Acquire(ctx, key, reciboGuardTTL)
	if err != nil || !ok {
		return
	}
	if err := s.jobs.EnqueueRecibo(ctx, pedidoID); err != nil {
		log.Error().Err(err).Int("order_id", pedidoID).Msg("estado_pedido: no se pudo encolar el recibo")
		_ = s.guard.Release(ctx, key)
	}
}

// primerVendedor picks the vendor of the first item that resolves to one.
// Orders spanning several vendors only offer a rating for that one.
func primerVendedor(p *model.Pedido) *int {
	for _, it := range p.Items {
		if it.Producto != nil && it.Producto.VendedorID > 0 {
			id := it.Producto.VendedorID
			return &id
		}
	}
	return nil
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, 0, len(p.Items))
	total := decimal.Zero
	cantidad := 0
	for _, it := range p.Items {
		r := dto.PedidoItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			ProductoNombre: "Producto",
			Cantidad:       it.Cantidad,
			PrecioTotal:    it.PrecioTotal,
		}
		if it.Producto != nil {
			r.ProductoNombre = it.Producto.Nombre
			vendedor := it.Producto.VendedorID
			r.VendedorID = &vendedor
		}
		items = append(items, r)
		total = total.Add(it.PrecioTotal)
		cantidad += it.Cantidad
	}

	resp := dto.PedidoResponse{
		ID:            p.ID,
		Estado:        p.Estado,
		EstadoLegible: model.EstadoPedidoLegible(p.Estado),
		CreatedAt:     p.CreatedAt,
		Items:         items,
		Total:         total,
		TotalItems:    cantidad,
	}
	if p.Pago != nil {
		resp.Pago = &dto.PagoResponse{
			ID:            p.Pago.ID,
			Estado:        p.Pago.Estado,
			EstadoLegible: model.EstadoPagoLegible(p.Pago.Estado),
		}
	}
	return resp
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bogogo/internal/cart"
	"bogogo/internal/config"
	"bogogo/internal/dto"
	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCarritoVacio         = errors.New("El carrito está vacío")
	ErrCheckoutEnCurso      = errors.New("Ya hay un pago en proceso")
	ErrPerfilIncompleto     = errors.New("Completa tu perfil para continuar con la compra")
	ErrProductoNoDisponible = errors.New("Un producto del carrito ya no está disponible")
	ErrStockInsuficiente    = errors.New("Stock insuficiente")

	ErrCrearPago       = errors.New("No se pudo crear el pago")
	ErrCrearPedido     = errors.New("No se pudo crear la orden")
	ErrCrearItems      = errors.New("No se pudieron crear los items de la orden")
	ErrPreferenciaPago = errors.New("Error al crear la preferencia de pago")
	ErrSinInitPoint    = errors.New("No se recibió la URL de pago")
)

const checkoutGuardTTL = 2 * time.Minute

// Jobs enqueues background work. *worker.Dispatcher implements it.
type Jobs interface {
	EnqueuePedidoConfirmado(ctx context.Context, pedidoID int) error
	EnqueueRecibo(ctx context.Context, pedidoID int) error
}

// CheckoutService turns a cart into payment, order and items, then asks the
// payment provider for the redirect URL.
type CheckoutService interface {
	Iniciar(ctx context.Context, carritoID, identidadID string) (*dto.CheckoutResponse, error)
}

type CheckoutOptions struct {
	Origin       string
	MetodoPagoID int
}

func CheckoutOptionsFromConfig(cfg *config.Config) CheckoutOptions {
	return CheckoutOptions{Origin: cfg.PublicOrigin, MetodoPagoID: cfg.PaymentMethodID}
}

type checkoutService struct {
	carritos  repository.CarritoRepository
	guard     repository.Guard
	usuarios  repository.UsuarioRepository
	productos repository.ProductoRepository
	pedidos   repository.PedidoRepository
	pagos     infra.PreferenciaPago
	jobs      Jobs
	opts      CheckoutOptions
}

func NewCheckoutService(
	carritos repository.CarritoRepository,
	guard repository.Guard,
	usuarios repository.UsuarioRepository,
	productos repository.ProductoRepository,
	pedidos repository.PedidoRepository,
	pagos infra.PreferenciaPago,
	jobs Jobs,
	opts CheckoutOptions,
) CheckoutService {
	return &checkoutService{
		carritos:  carritos,
		guard:     guard,
		usuarios:  usuarios,
		productos: productos,
		pedidos:   pedidos,
		pagos:     pagos,
		jobs:      jobs,
		opts:      opts,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

type lineaPrecio struct {
	producto model.Producto
	cantidad int
	total    decimal.Decimal
}

// Iniciar runs the checkout sequence:
//  1. re-entrancy guard per cart, non-empty cart
//  2. numeric customer id; when missing, leave the pending-checkout marker
//  3. prices and stock re-read from the catalog
//  4. payment PE, order PEN and batched items in one transaction
//  5. payment preference, then close the cart panel (the cart is kept)
func (s *checkoutService) Iniciar(ctx context.Context, carritoID, identidadID string) (*dto.CheckoutResponse, error) {
	guardKey := "checkout:" + carritoID
	ok, err := s.guard.Acquire(ctx, guardKey, checkoutGuardTTL)
	if err != nil {
		return nil, fmt.Errorf("checkout guard: %w", err)
	}
	if !ok {
		return nil, ErrCheckoutEnCurso
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), guardKey); err != nil {
			log.Warn().Err(err).Str("cart_id", carritoID).Msg("checkout: no se pudo liberar el guard")
		}
	}()

	c, err := s.carritos.Get(ctx, carritoID)
	if err != nil {
		return nil, err
	}
	if c.Vacio() {
		return nil, ErrCarritoVacio
	}

	usuario, err := s.usuarios.FindByUUID(ctx, identidadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.carritos.MarcarCheckoutPendiente(ctx, carritoID); err != nil {
				return nil, err
			}
			return nil, ErrPerfilIncompleto
		}
		return nil, fmt.Errorf("buscando usuario: %w", err)
	}

	lineas, err := s.preciosActuales(ctx, c)
	if err != nil {
		return nil, err
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		pago := model.Pago{
			ID:           uuid.NewString(),
			Estado:       model.PagoPendiente,
			MetodoPagoID: s.opts.MetodoPagoID,
		}
		if err := s.pedidos.CreatePagoTx(tx, &pago); err != nil {
			log.Error().Err(err).Str("identity_id", identidadID).Msg("checkout: error creando payment")
			return ErrCrearPago
		}

		pedido = model.Pedido{
			ClienteID: usuario.ID,
			PagoID:    pago.ID,
			Estado:    model.PedidoPendiente,
		}
		if err := s.pedidos.CreatePedidoTx(tx, &pedido); err != nil {
			log.Error().Err(err).Str("identity_id", identidadID).Msg("checkout: error creando order")
			return ErrCrearPedido
		}

		items := make([]model.PedidoItem, 0, len(lineas))
		for _, l := range lineas {
			items = append(items, model.PedidoItem{
				PedidoID:    pedido.ID,
				ProductoID:  l.producto.ID,
				Cantidad:    l.cantidad,
				PrecioTotal: l.total,
			})
		}
		if err := s.pedidos.CreateItemsTx(tx, items); err != nil {
			log.Error().Err(err).Int("order_id", pedido.ID).Msg("checkout: error creando order_item")
			return ErrCrearItems
		}
		pedido.Items = items
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	initPoint, err := s.pagos.CrearPreferencia(ctx, s.preferencia(pedido.ID, lineas))
	if err != nil {
		log.Error().Err(err).Int("order_id", pedido.ID).Msg("checkout: error en create-mp-preference")
		var rechazo *infra.PreferenciaError
		if errors.As(err, &rechazo) {
			return nil, rechazo
		}
		return nil, ErrPreferenciaPago
	}
	if initPoint == "" {
		return nil, ErrSinInitPoint
	}

	if _, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Abierto = false
		return nil
	}); err != nil {
		log.Warn().Err(err).Str("cart_id", carritoID).Msg("checkout: no se pudo cerrar el panel del carrito")
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueuePedidoConfirmado(ctx, pedido.ID); err != nil {
			log.Warn().Err(err).Int("order_id", pedido.ID).Msg("checkout: no se pudo encolar el correo del pedido")
		}
	}

	return &dto.CheckoutResponse{PedidoID: pedido.ID, InitPoint: initPoint}, nil
}

// preciosActuales ignores the cart's price snapshot and prices every line
// from the catalog. Unknown products and insufficient stock abort here,
// before any write.
func (s *checkoutService) preciosActuales(ctx context.Context, c *cart.Carrito) ([]lineaPrecio, error) {
	ids := make([]string, 0, len(c.Lineas))
	for _, l := range c.Lineas {
		ids = append(ids, l.Producto.ID)
	}
	productos, err := s.productos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("leyendo productos: %w", err)
	}
	porID := make(map[string]model.Producto, len(productos))
	for _, p := range productos {
		porID[p.ID] = p
	}

	lineas := make([]lineaPrecio, 0, len(c.Lineas))
	for _, l := range c.Lineas {
		p, ok := porID[l.Producto.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoDisponible, l.Producto.Nombre)
		}
		if p.Stock < l.Cantidad {
			return nil, fmt.Errorf("%w: %s (disponible %d)", ErrStockInsuficiente, p.Nombre, p.Stock)
		}
		lineas = append(lineas, lineaPrecio{
			producto: p,
			cantidad: l.Cantidad,
			total:    p.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad))),
		})
	}
	return lineas, nil
}

func (s *checkoutService) preferencia(pedidoID int, lineas []lineaPrecio) infra.PreferenciaRequest {
	url := func(variante string) string {
		return fmt.Sprintf("%s/checkout/%s?orderId=%d", s.opts.Origin, variante, pedidoID)
	}
	items := make([]infra.PreferenciaItem, 0, len(lineas))
	for _, l := range lineas {
		items = append(items, infra.PreferenciaItem{
			Titulo:         l.producto.Nombre,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.producto.Precio,
		})
	}
	return infra.PreferenciaRequest{
		PedidoID:   pedidoID,
		SuccessURL: url("success"),
		FailureURL: url("failure"),
		PendingURL: url("pending"),
		Items:      items,
	}
}

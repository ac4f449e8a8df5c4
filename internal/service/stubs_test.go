package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"bogogo/internal/cart"
	"bogogo/internal/dto"
	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCarritoRepo keeps carts in memory; Update works on a copy so a failing
// fn leaves the stored cart untouched.
type stubCarritoRepo struct {
	carritos   map[string]*cart.Carrito
	pendientes map[string]bool
	updateErr  error
}

func newStubCarritoRepo() *stubCarritoRepo {
	return &stubCarritoRepo{carritos: make(map[string]*cart.Carrito), pendientes: make(map[string]bool)}
}

func (r *stubCarritoRepo) Get(_ context.Context, id string) (*cart.Carrito, error) {
	c, ok := r.carritos[id]
	if !ok {
		return &cart.Carrito{}, nil
	}
	cp := *c
	cp.Lineas = append([]cart.Linea(nil), c.Lineas...)
	return &cp, nil
}

func (r *stubCarritoRepo) Update(ctx context.Context, id string, fn func(*cart.Carrito) error) (*cart.Carrito, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	c, _ := r.Get(ctx, id)
	if err := fn(c); err != nil {
		return nil, err
	}
	r.carritos[id] = c
	return c, nil
}

func (r *stubCarritoRepo) MarcarCheckoutPendiente(_ context.Context, id string) error {
	r.pendientes[id] = true
	return nil
}

func (r *stubCarritoRepo) ConsumirCheckoutPendiente(_ context.Context, id string) (bool, error) {
	v := r.pendientes[id]
	delete(r.pendientes, id)
	return v, nil
}

var _ repository.CarritoRepository = (*stubCarritoRepo)(nil)

type stubGuard struct {
	mu       sync.Mutex
	tomados  map[string]bool
	acquires int
}

func newStubGuard() *stubGuard { return &stubGuard{tomados: make(map[string]bool)} }

func (g *stubGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.acquires++
	if g.tomados[key] {
		return false, nil
	}
	g.tomados[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tomados, key)
	return nil
}

var _ repository.Guard = (*stubGuard)(nil)

type stubUsuarioRepo struct {
	porID   map[int]*model.Usuario
	findErr error
	nextID  int
}

func newStubUsuarioRepo(usuarios ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{porID: make(map[int]*model.Usuario), nextID: 100}
	for _, u := range usuarios {
		r.porID[u.ID] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, e := range r.porID {
		if e.UUID == u.UUID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.porID[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id int) (*model.Usuario, error) {
	if u, ok := r.porID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByUUID(_ context.Context, identidadID string) (*model.Usuario, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.porID {
		if u.UUID == identidadID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.porID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) RolPorUUID(ctx context.Context, identidadID string) (*int, error) {
	u, err := r.FindByUUID(ctx, identidadID)
	if err != nil {
		return nil, err
	}
	return u.RolID, nil
}

func (r *stubUsuarioRepo) ExistePorUUID(ctx context.Context, identidadID string) (bool, error) {
	_, err := r.FindByUUID(ctx, identidadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubProductoRepo struct {
	productos map[string]*model.Producto
	deleteErr error
	borrados  []string
}

func newStubProductoRepo(productos ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[string]*model.Producto)}
	for _, p := range productos {
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id string) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []string) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if filter.CategoriaID == 0 || p.CategoriaID == filter.CategoriaID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) ListByVendedor(_ context.Context, vendedorID int) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.VendedorID == vendedorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.productos, id)
	r.borrados = append(r.borrados, id)
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubPedidoRepo records every call in order so tests can assert the
// checkout sequence.
type stubPedidoRepo struct {
	llamadas []string
	pagos    []model.Pago
	pedidos  map[int]*model.Pedido
	items    []model.PedidoItem
	nextID   int

	pagoErr   error
	pedidoErr error
	itemsErr  error
	findErr   error
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[int]*model.Pedido), nextID: 40}
}

func (r *stubPedidoRepo) CreatePagoTx(_ *gorm.DB, p *model.Pago) error {
	r.llamadas = append(r.llamadas, "pago")
	if r.pagoErr != nil {
		return r.pagoErr
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubPedidoRepo) CreatePedidoTx(_ *gorm.DB, p *model.Pedido) error {
	r.llamadas = append(r.llamadas, "pedido")
	if r.pedidoErr != nil {
		return r.pedidoErr
	}
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.pedidos[p.ID] = &cp
	return nil
}

func (r *stubPedidoRepo) CreateItemsTx(_ *gorm.DB, items []model.PedidoItem) error {
	r.llamadas = append(r.llamadas, "items")
	if r.itemsErr != nil {
		return r.itemsErr
	}
	r.items = append(r.items, items...)
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id int) (*model.Pedido, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) ListByCliente(_ context.Context, clienteID int) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.ClienteID == clienteID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubPreferencia struct {
	initPoint string
	err       error
	recibidas []infra.PreferenciaRequest
}

func (p *stubPreferencia) CrearPreferencia(_ context.Context, req infra.PreferenciaRequest) (string, error) {
	p.recibidas = append(p.recibidas, req)
	return p.initPoint, p.err
}

var _ infra.PreferenciaPago = (*stubPreferencia)(nil)

type stubJobs struct {
	confirmados []int
	recibos     []int
}

func (j *stubJobs) EnqueuePedidoConfirmado(_ context.Context, pedidoID int) error {
	j.confirmados = append(j.confirmados, pedidoID)
	return nil
}

func (j *stubJobs) EnqueueRecibo(_ context.Context, pedidoID int) error {
	j.recibos = append(j.recibos, pedidoID)
	return nil
}

type stubCache struct {
	datos       map[string]any
	invalidadas int
}

func newStubCache() *stubCache { return &stubCache{datos: make(map[string]any)} }

func (c *stubCache) Get(_ context.Context, key string, dst any) bool {
	v, ok := c.datos[key]
	if !ok {
		return false
	}
	switch d := dst.(type) {
	case *[]dto.ProductoResponse:
		*d = v.([]dto.ProductoResponse)
	case *dto.ProductoResponse:
		*d = v.(dto.ProductoResponse)
	case *[]dto.CategoriaResponse:
		*d = v.([]dto.CategoriaResponse)
	default:
		return false
	}
	return true
}

func (c *stubCache) Set(_ context.Context, key string, v any) { c.datos[key] = v }

func (c *stubCache) Invalidar(context.Context) error {
	c.invalidadas++
	c.datos = make(map[string]any)
	return nil
}

var _ repository.CatalogoCache = (*stubCache)(nil)

func intPtr(v int) *int { return &v }

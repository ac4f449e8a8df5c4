package service

import (
	"context"
	"errors"
	"time"

	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var ErrDashboardTimeout = errors.New("Tiempo de espera agotado. Por favor, intenta recargar.")

const itemsVendedorLimite = 50

// ConsultaDashboardError names the reporting view whose query failed. Its
// message is shown to the user; the cause stays in the logs.
type ConsultaDashboardError struct {
	Vista string
	Err   error
}

func (e *ConsultaDashboardError) Error() string {
	return "Error al cargar " + e.Vista + ". Por favor, intenta recargar."
}

func (e *ConsultaDashboardError) Unwrap() error { return e.Err }

// consulta runs fn and tags its error with the view it reads.
func consulta(vista string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			return &ConsultaDashboardError{Vista: vista, Err: err}
		}
		return nil
	}
}

// DashboardService loads the reporting views for the admin and vendor
// dashboards. All queries of one load run concurrently; the first error
// fails the whole load as a *ConsultaDashboardError and nothing partial is
// returned.
type DashboardService interface {
	Admin(ctx context.Context) (*dto.DashboardAdminResponse, error)
	Vendedor(ctx context.Context, vendedorID int) (*dto.DashboardVendedorResponse, error)
}

type dashboardService struct {
	reportes repository.ReporteRepository
	timeout  time.Duration
}

func NewDashboardService(reportes repository.ReporteRepository, timeout time.Duration) DashboardService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &dashboardService{reportes: reportes, timeout: timeout}
}

func (s *dashboardService) Admin(ctx context.Context) (*dto.DashboardAdminResponse, error) {
	var resp dto.DashboardAdminResponse
	err := s.fanOut(ctx, func(g *errgroup.Group, ctx context.Context) {
		g.Go(consulta("las ventas por vendedor", func() (err error) {
			resp.VentasVendedores, err = s.reportes.VentasVendedores(ctx)
			return
		}))
		g.Go(consulta("las ventas por categoría", func() (err error) {
			resp.VentasCategorias, err = s.reportes.VentasCategorias(ctx)
			return
		}))
		g.Go(consulta("el resumen de pedidos", func() (err error) {
			resp.Pedidos, err = s.reportes.ResumenPedidos(ctx)
			return
		}))
		g.Go(consulta("el inventario", func() (err error) {
			resp.Inventario, err = s.reportes.Inventario(ctx, nil)
			return
		}))
		g.Go(consulta("las calificaciones", func() (err error) {
			resp.Calificaciones, err = s.reportes.Calificaciones(ctx)
			return
		}))
	})
	if err != nil {
		return nil, err
	}

	ventas := decimal.Zero
	for _, v := range resp.VentasVendedores {
		ventas = ventas.Add(v.VentasBrutas)
	}
	resp.KPIs = dto.KPIsAdmin{
		TotalVentas:    ventas,
		TotalPedidos:   len(resp.Pedidos),
		TotalProductos: len(resp.Inventario),
		StockBajo:      contarStockCritico(resp.Inventario),
	}
	return &resp, nil
}

func (s *dashboardService) Vendedor(ctx context.Context, vendedorID int) (*dto.DashboardVendedorResponse, error) {
	var resp dto.DashboardVendedorResponse
	err := s.fanOut(ctx, func(g *errgroup.Group, ctx context.Context) {
		g.Go(consulta("el resumen de ventas", func() (err error) {
			resp.ResumenVentas, err = s.reportes.VentasDeVendedor(ctx, vendedorID)
			return
		}))
		g.Go(consulta("los pedidos recientes", func() (err error) {
			resp.Items, err = s.reportes.ItemsDeVendedor(ctx, vendedorID, itemsVendedorLimite)
			return
		}))
		g.Go(consulta("el inventario", func() (err error) {
			resp.Inventario, err = s.reportes.Inventario(ctx, &vendedorID)
			return
		}))
		g.Go(consulta("la calificación", func() (err error) {
			resp.Calificacion, err = s.reportes.CalificacionDeVendedor(ctx, vendedorID)
			return
		}))
		g.Go(consulta("el catálogo", func() (err error) {
			resp.Catalogo, err = s.reportes.CatalogoDeVendedor(ctx, vendedorID)
			return
		}))
	})
	if err != nil {
		return nil, err
	}

	kpis := dto.KPIsVendedor{
		MisVentas:    decimal.Zero,
		MisProductos: len(resp.Catalogo),
		StockBajo:    contarStockCritico(resp.Inventario),
	}
	if resp.ResumenVentas != nil {
		kpis.MisVentas = resp.ResumenVentas.VentasBrutas
		kpis.MisPedidos = resp.ResumenVentas.CantidadPedidos
	}
	for _, it := range resp.Items {
		if it.EstadoPedido == model.PedidoPendiente {
			kpis.PedidosPendientes++
		}
	}
	resp.KPIs = kpis
	return &resp, nil
}

// fanOut runs the queries registered by start and waits for all of them or
// for the timeout, whichever comes first. Stragglers are cancelled through
// the shared context but not awaited.
func (s *dashboardService) fanOut(ctx context.Context, start func(g *errgroup.Group, ctx context.Context)) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	start(g, gctx)

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrDashboardTimeout
		}
		if err != nil {
			log.Error().Err(err).Msg("dashboard: consulta fallida")
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn().Dur("timeout", s.timeout).Msg("dashboard: tiempo de espera agotado")
			return ErrDashboardTimeout
		}
		return ctx.Err()
	}
}

func contarStockCritico(filas []model.EstadoInventario) int {
	n := 0
	for _, f := range filas {
		if f.StockCritico() {
			n++
		}
	}
	return n
}

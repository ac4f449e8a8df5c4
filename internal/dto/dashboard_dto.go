package dto

import (
	"bogogo/internal/model"

	"github.com/shopspring/decimal"
)

type KPIsAdmin struct {
	TotalVentas    decimal.Decimal `json:"total_ventas"`
	TotalPedidos   int             `json:"total_pedidos"`
	TotalProductos int             `json:"total_productos"`
	StockBajo      int             `json:"stock_bajo"`
}

type DashboardAdminResponse struct {
	VentasVendedores []model.VentasVendedor       `json:"ventas_vendedores"`
	VentasCategorias []model.VentasCategoria      `json:"ventas_categorias"`
	Pedidos          []model.ResumenPedido        `json:"pedidos"`
	Inventario       []model.EstadoInventario     `json:"inventario"`
	Calificaciones   []model.CalificacionVendedor `json:"calificaciones"`
	KPIs             KPIsAdmin                    `json:"kpis"`
}

type KPIsVendedor struct {
	MisVentas         decimal.Decimal `json:"mis_ventas"`
	MisPedidos        int             `json:"mis_pedidos"`
	MisProductos      int             `json:"mis_productos"`
	PedidosPendientes int             `json:"pedidos_pendientes"`
	StockBajo         int             `json:"stock_bajo"`
}

type DashboardVendedorResponse struct {
	ResumenVentas *model.VentasVendedor       `json:"resumen_ventas"`
	Items         []model.ItemPedidoDetallado `json:"items"`
	Inventario    []model.EstadoInventario    `json:"inventario"`
	Calificacion  *model.CalificacionVendedor `json:"calificacion"`
	Catalogo      []model.ProductoCatalogo    `json:"catalogo"`
	KPIs          KPIsVendedor                `json:"kpis"`
}

package repository

import (
	"context"
	"errors"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

// ReporteRepository queries the read-only reporting views. A nil vendedorID
// means the global (administrator) scope.
type ReporteRepository interface {
	VentasVendedores(ctx context.Context) ([]model.VentasVendedor, error)
	// VentasDeVendedor returns nil, nil when the vendor has no sales row yet.
	VentasDeVendedor(ctx context.Context, vendedorID int) (*model.VentasVendedor, error)
	VentasCategorias(ctx context.Context) ([]model.VentasCategoria, error)
	ResumenPedidos(ctx context.Context) ([]model.ResumenPedido, error)
	Inventario(ctx context.Context, vendedorID *int) ([]model.EstadoInventario, error)
	Calificaciones(ctx context.Context) ([]model.CalificacionVendedor, error)
	// CalificacionDeVendedor returns nil, nil when the vendor has no ratings.
	CalificacionDeVendedor(ctx context.Context, vendedorID int) (*model.CalificacionVendedor, error)
	ItemsDeVendedor(ctx context.Context, vendedorID, limit int) ([]model.ItemPedidoDetallado, error)
	CatalogoDeVendedor(ctx context.Context, vendedorID int) ([]model.ProductoCatalogo, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) VentasVendedores(ctx context.Context) ([]model.VentasVendedor, error) {
	var rows []model.VentasVendedor
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) VentasDeVendedor(ctx context.Context, vendedorID int) (*model.VentasVendedor, error) {
	var row model.VentasVendedor
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendedorID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reporteRepo) VentasCategorias(ctx context.Context) ([]model.VentasCategoria, error) {
	var rows []model.VentasCategoria
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) ResumenPedidos(ctx context.Context) ([]model.ResumenPedido, error) {
	var rows []model.ResumenPedido
	err := r.db.WithContext(ctx).Order("order_date DESC").Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) Inventario(ctx context.Context, vendedorID *int) ([]model.EstadoInventario, error) {
	var rows []model.EstadoInventario
	q := r.db.WithContext(ctx)
	if vendedorID != nil {
		q = q.Where("vendor_id = ?", *vendedorID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) Calificaciones(ctx context.Context) ([]model.CalificacionVendedor, error) {
	var rows []model.CalificacionVendedor
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) CalificacionDeVendedor(ctx context.Context, vendedorID int) (*model.CalificacionVendedor, error) {
	var row model.CalificacionVendedor
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendedorID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reporteRepo) ItemsDeVendedor(ctx context.Context, vendedorID, limit int) ([]model.ItemPedidoDetallado, error) {
	var rows []model.ItemPedidoDetallado
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendedorID).
		Order("order_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *reporteRepo) CatalogoDeVendedor(ctx context.Context, vendedorID int) ([]model.ProductoCatalogo, error) {
	var rows []model.ProductoCatalogo
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendedorID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

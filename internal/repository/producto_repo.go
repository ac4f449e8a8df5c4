package repository

import (
	"context"

	"bogogo/internal/dto"
	"bogogo/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id string) (*model.Producto, error)
	// FindByIDs returns the products that exist; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []string) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	ListByVendedor(ctx context.Context, vendedorID int) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	// Delete removes the product and its multimedia rows in one transaction.
	Delete(ctx context.Context, id string) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Categoria", "Vendedor", "Multimedia").Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Multimedia").
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Producto, error) {
	var productos []model.Producto
	if len(ids) == 0 {
		return productos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Preload("Categoria").Preload("Multimedia")
	if filter.CategoriaID > 0 {
		q = q.Where("id_category = ?", filter.CategoriaID)
	}
	err := q.Order("created_at DESC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListByVendedor(ctx context.Context, vendedorID int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Multimedia").
		Where("id_vendor = ?", vendedorID).
		Order("created_at DESC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Categoria", "Vendedor", "Multimedia").Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_product = ?", id).Delete(&model.Multimedia{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Producto{}).Error
	})
}

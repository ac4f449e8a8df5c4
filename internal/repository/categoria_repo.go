package repository

import (
	"context"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

// CategoriaRepository reads the static category reference data.
type CategoriaRepository interface {
	Listar(ctx context.Context) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id int) (*model.Categoria, error)
	// Asegurar inserts the category when no row with the same name exists.
	Asegurar(ctx context.Context, c *model.Categoria) error
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Listar(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id int) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Asegurar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).
		Where(model.Categoria{Nombre: c.Nombre}).
		Attrs(model.Categoria{Descripcion: c.Descripcion}).
		FirstOrCreate(c).Error
}

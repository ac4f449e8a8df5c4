package service

import (
	"context"

	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/repository"
)

// CategoriasBase is the reference data loaded by `bogoctl seed-categorias`.
var CategoriasBase = []model.Categoria{
	{Nombre: "Camisetas", Descripcion: "Camisetas y tops"},
	{Nombre: "Pantalones", Descripcion: "Jeans, pantalones y joggers"},
	{Nombre: "Vestidos", Descripcion: "Vestidos y enterizos"},
	{Nombre: "Chaquetas", Descripcion: "Chaquetas, abrigos y sacos"},
	{Nombre: "Calzado", Descripcion: "Zapatos, tenis y sandalias"},
	{Nombre: "Accesorios", Descripcion: "Bolsos, gorras, cinturones y joyería"},
}

// CategoriaService defines read access and seeding for product categories.
type CategoriaService interface {
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	// Sembrar inserts the categories missing by name and returns how many
	// rows exist for the given set afterwards.
	Sembrar(ctx context.Context, categorias []model.Categoria) (int, error)
}

type categoriaService struct {
	repo  repository.CategoriaRepository
	cache repository.CatalogoCache
}

func NewCategoriaService(repo repository.CategoriaRepository, cache repository.CatalogoCache) CategoriaService {
	return &categoriaService{repo: repo, cache: cache}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
	}
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	var cached []dto.CategoriaResponse
	if s.cache != nil && s.cache.Get(ctx, "categorias", &cached) {
		return cached, nil
	}

	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	if s.cache != nil {
		s.cache.Set(ctx, "categorias", result)
	}
	return result, nil
}

func (s *categoriaService) Sembrar(ctx context.Context, categorias []model.Categoria) (int, error) {
	n := 0
	for i := range categorias {
		c := categorias[i]
		if err := s.repo.Asegurar(ctx, &c); err != nil {
			return n, err
		}
		n++
	}
	if s.cache != nil {
		if err := s.cache.Invalidar(ctx); err != nil {
			return n, err
		}
	}
	return n, nil
}

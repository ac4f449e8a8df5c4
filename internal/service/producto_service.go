package service

import (
	"context"
	"errors"
	"fmt"

	"bogogo/internal/dto"
	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrProductoAjeno      = errors.New("No tienes permiso para modificar este producto")
	ErrCategoriaInvalida  = errors.New("Categoría no encontrada")
	ErrPrecioInvalido     = errors.New("El precio debe ser mayor a 0")
	ErrProductoConPedidos = errors.New("No se puede eliminar un producto con pedidos asociados")
)

// ProductoService covers the public catalog and the vendor's own products.
// Public reads are cached; every vendor write invalidates the cache.
type ProductoService interface {
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id string) (*dto.ProductoResponse, error)

	ListarDeVendedor(ctx context.Context, vendedorID int) ([]dto.ProductoResponse, error)
	Crear(ctx context.Context, vendedorID int, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, vendedorID int, id string, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, vendedorID int, id string) error
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
	storage    infra.Storage
	cache      repository.CatalogoCache
}

func NewProductoService(
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	storage infra.Storage,
	cache repository.CatalogoCache,
) ProductoService {
	return &productoService{repo: repo, categorias: categorias, storage: storage, cache: cache}
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	key := fmt.Sprintf("productos:%d", filter.CategoriaID)
	var cached []dto.ProductoResponse
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := productosToResponse(list)
	if s.cache != nil {
		s.cache.Set(ctx, key, out)
	}
	return out, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	key := "producto:" + id
	var cached dto.ProductoResponse
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	resp := productoToResponse(p)
	if s.cache != nil {
		s.cache.Set(ctx, key, resp)
	}
	return &resp, nil
}

func (s *productoService) ListarDeVendedor(ctx context.Context, vendedorID int) ([]dto.ProductoResponse, error) {
	list, err := s.repo.ListByVendedor(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	return productosToResponse(list), nil
}

func (s *productoService) Crear(ctx context.Context, vendedorID int, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, ErrPrecioInvalido
	}
	cat, err := s.categoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		ID:          uuid.NewString(),
		Nombre:      req.Nombre,
		Precio:      req.Precio,
		Stock:       req.Stock,
		CategoriaID: req.CategoriaID,
		VendedorID:  vendedorID,
		Features:    req.Features,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Categoria = cat
	s.invalidar(ctx)

	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, vendedorID int, id string, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := productoPropio(ctx, s.repo, vendedorID, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, ErrPrecioInvalido
		}
		p.Precio = *req.Precio
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.CategoriaID != nil && *req.CategoriaID != p.CategoriaID {
		cat, err := s.categoria(ctx, *req.CategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = cat.ID
		p.Categoria = cat
	}
	if req.Features != nil {
		p.Features = req.Features
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidar(ctx)

	resp := productoToResponse(p)
	return &resp, nil
}

// Eliminar removes the product and its multimedia rows, then its objects.
// Object removal failures are only logged.
func (s *productoService) Eliminar(ctx context.Context, vendedorID int, id string) error {
	p, err := productoPropio(ctx, s.repo, vendedorID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProductoConPedidos
		}
		return err
	}
	s.invalidar(ctx)

	if s.storage == nil || len(p.Multimedia) == 0 {
		return nil
	}
	paths := make([]string, 0, len(p.Multimedia))
	for _, m := range p.Multimedia {
		if op, ok := s.storage.ObjectPath(m.Src); ok {
			paths = append(paths, op)
		}
	}
	if err := s.storage.Remove(ctx, paths...); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("producto: no se pudieron borrar las imagenes del bucket")
	}
	return nil
}

func (s *productoService) categoria(ctx context.Context, id int) (*model.Categoria, error) {
	cat, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoriaInvalida
		}
		return nil, err
	}
	return cat, nil
}

func (s *productoService) invalidar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidar(ctx); err != nil {
		log.Warn().Err(err).Msg("producto: no se pudo invalidar la cache del catalogo")
	}
}

// productoPropio loads the product and checks that vendedorID owns it.
func productoPropio(ctx context.Context, repo repository.ProductoRepository, vendedorID int, id string) (*model.Producto, error) {
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	if p.VendedorID != vendedorID {
		return nil, ErrProductoAjeno
	}
	return p, nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	imagenes := make([]dto.ImagenResponse, 0, len(p.Multimedia))
	for _, m := range p.Multimedia {
		imagenes = append(imagenes, dto.ImagenResponse{ID: m.ID, Alt: m.Alt, Src: m.Src})
	}
	resp := dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		Stock:       p.Stock,
		CategoriaID: p.CategoriaID,
		VendedorID:  p.VendedorID,
		Features:    p.Features,
		CreatedAt:   p.CreatedAt,
		Imagenes:    imagenes,
	}
	if p.Categoria != nil {
		cat := mapCategoria(*p.Categoria)
		resp.Categoria = &cat
	}
	return resp
}

func productosToResponse(list []model.Producto) []dto.ProductoResponse {
	out := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		out = append(out, productoToResponse(&list[i]))
	}
	return out
}

package service_test

import (
	"context"
	"testing"

	"bogogo/internal/dto"
	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productoFixture struct {
	repo    *stubProductoRepo
	cache   *stubCache
	fs      afero.Fs
	storage *infra.BucketStorage
	svc     service.ProductoService
}

func newProductoFixture() *productoFixture {
	f := &productoFixture{
		repo:  newStubProductoRepo(),
		cache: newStubCache(),
		fs:    afero.NewMemMapFs(),
	}
	f.storage = infra.NewBucketStorageFs(f.fs, "product-images", "http://localhost:8000")
	f.repo.productos["p1"] = &model.Producto{
		ID: "p1", Nombre: "Camiseta", Precio: decimal.NewFromInt(100), Stock: 3, CategoriaID: 1, VendedorID: 9,
	}
	categorias := &stubCategoriaRepo{categorias: []model.Categoria{
		{ID: 1, Nombre: "Camisetas"},
		{ID: 2, Nombre: "Pantalones"},
	}}
	f.svc = service.NewProductoService(f.repo, categorias, f.storage, f.cache)
	return f
}

func TestProducto_ListarCacheaYCrearInvalida(t *testing.T) {
	f := newProductoFixture()
	ctx := context.Background()

	list, err := f.svc.Listar(ctx, dto.ProductoFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, f.cache.datos, "productos:0")

	creado, err := f.svc.Crear(ctx, 9, dto.CrearProductoRequest{
		Nombre: "Jean", Precio: decimal.NewFromInt(80), Stock: 5, CategoriaID: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, creado.ID)
	assert.Equal(t, 9, creado.VendedorID)
	require.NotNil(t, creado.Categoria)
	assert.Equal(t, "Pantalones", creado.Categoria.Nombre)
	assert.Equal(t, 1, f.cache.invalidadas)

	list, err = f.svc.Listar(ctx, dto.ProductoFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestProducto_CrearValidaciones(t *testing.T) {
	f := newProductoFixture()

	_, err := f.svc.Crear(context.Background(), 9, dto.CrearProductoRequest{Nombre: "X", Precio: decimal.Zero, CategoriaID: 1})
	assert.ErrorIs(t, err, service.ErrPrecioInvalido)

	_, err = f.svc.Crear(context.Background(), 9, dto.CrearProductoRequest{Nombre: "X", Precio: decimal.NewFromInt(1), CategoriaID: 99})
	assert.ErrorIs(t, err, service.ErrCategoriaInvalida)
}

func TestProducto_ObtenerPorIDInexistente(t *testing.T) {
	f := newProductoFixture()

	_, err := f.svc.ObtenerPorID(context.Background(), "nope")

	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

func TestProducto_ActualizarParcial(t *testing.T) {
	f := newProductoFixture()
	nuevoPrecio := decimal.NewFromInt(120)
	stock := 0

	resp, err := f.svc.Actualizar(context.Background(), 9, "p1", dto.ActualizarProductoRequest{
		Precio: &nuevoPrecio,
		Stock:  &stock,
	})
	require.NoError(t, err)

	assert.Equal(t, "Camiseta", resp.Nombre)
	assert.True(t, resp.Precio.Equal(nuevoPrecio))
	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, 0, f.repo.productos["p1"].Stock)
}

func TestProducto_SoloElDuenoModifica(t *testing.T) {
	f := newProductoFixture()
	nombre := "Robado"

	_, err := f.svc.Actualizar(context.Background(), 11, "p1", dto.ActualizarProductoRequest{Nombre: &nombre})
	assert.ErrorIs(t, err, service.ErrProductoAjeno)

	err = f.svc.Eliminar(context.Background(), 11, "p1")
	assert.ErrorIs(t, err, service.ErrProductoAjeno)

	assert.Equal(t, "Camiseta", f.repo.productos["p1"].Nombre)
	assert.Zero(t, f.cache.invalidadas)
}

func TestProducto_EliminarBorraObjetos(t *testing.T) {
	f := newProductoFixture()
	ctx := context.Background()
	require.NoError(t, afero.WriteFile(f.fs, "product-images/p1_a.png", []byte("x"), 0o644))
	f.repo.productos["p1"].Multimedia = []model.Multimedia{
		{ID: "m1", Src: f.storage.PublicURL("p1_a.png"), ProductoID: "p1"},
		{ID: "m2", Src: f.storage.PublicURL("p1_ya_borrado.png"), ProductoID: "p1"},
	}

	err := f.svc.Eliminar(ctx, 9, "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, f.repo.borrados)
	existe, _ := afero.Exists(f.fs, "product-images/p1_a.png")
	assert.False(t, existe)
	assert.Equal(t, 1, f.cache.invalidadas)
}

func TestProducto_EliminarConPedidos(t *testing.T) {
	f := newProductoFixture()
	f.repo.deleteErr = gorm.ErrForeignKeyViolated

	err := f.svc.Eliminar(context.Background(), 9, "p1")

	assert.ErrorIs(t, err, service.ErrProductoConPedidos)
	assert.Contains(t, f.repo.productos, "p1")
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarritoFixture() (*stubCarritoRepo, service.CarritoService) {
	carritos := newStubCarritoRepo()
	productos := newStubProductoRepo(
		&model.Producto{ID: "p1", Nombre: "Camiseta", Precio: decimal.NewFromInt(100), Stock: 3, VendedorID: 9,
			Multimedia: []model.Multimedia{{ID: "m1", Src: "/storage/product-images/p1_a.png"}}},
		&model.Producto{ID: "p2", Nombre: "Gorra", Precio: decimal.NewFromInt(25), Stock: 10, VendedorID: 11},
	)
	return carritos, service.NewCarritoService(carritos, productos)
}

func TestCarrito_AgregarSumaLineaExistente(t *testing.T) {
	_, svc := newCarritoFixture()
	ctx := context.Background()

	_, err := svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	resp, err := svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 2})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Cantidad)
	assert.Equal(t, "/storage/product-images/p1_a.png", resp.Items[0].ImagenURL)
	assert.Equal(t, 3, resp.TotalItems)
	assert.True(t, resp.TotalPrecio.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "Camiseta agregado al carrito", resp.Mensaje)
}

func TestCarrito_AgregarNoValidaStock(t *testing.T) {
	_, svc := newCarritoFixture()

	resp, err := svc.Agregar(context.Background(), "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 50})

	require.NoError(t, err)
	assert.Equal(t, 50, resp.TotalItems)
}

func TestCarrito_AgregarCantidadCeroCuentaComoUno(t *testing.T) {
	_, svc := newCarritoFixture()

	resp, err := svc.Agregar(context.Background(), "c1", dto.AgregarItemRequest{ProductoID: "p2"})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalItems)
}

func TestCarrito_AgregarProductoInexistente(t *testing.T) {
	carritos, svc := newCarritoFixture()

	_, err := svc.Agregar(context.Background(), "c1", dto.AgregarItemRequest{ProductoID: "nope", Cantidad: 1})

	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)
	assert.Empty(t, carritos.carritos)
}

func TestCarrito_ActualizarCantidad(t *testing.T) {
	_, svc := newCarritoFixture()
	ctx := context.Background()
	_, err := svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	_, err = svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p2", Cantidad: 1})
	require.NoError(t, err)

	resp, err := svc.ActualizarCantidad(ctx, "c1", "p2", 4)
	require.NoError(t, err)
	assert.Equal(t, "Cantidad actualizada", resp.Mensaje)
	assert.Equal(t, 5, resp.TotalItems)
	assert.True(t, resp.TotalPrecio.Equal(decimal.NewFromInt(200)))

	resp, err = svc.ActualizarCantidad(ctx, "c1", "p2", 0)
	require.NoError(t, err)
	assert.Equal(t, "Producto eliminado del carrito", resp.Mensaje)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p1", resp.Items[0].ProductoID)
}

func TestCarrito_QuitarYVaciar(t *testing.T) {
	carritos, svc := newCarritoFixture()
	ctx := context.Background()
	_, err := svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	_, err = svc.SetAbierto(ctx, "c1", true)
	require.NoError(t, err)

	resp, err := svc.Quitar(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "Producto eliminado del carrito", resp.Mensaje)

	_, err = svc.Agregar(ctx, "c1", dto.AgregarItemRequest{ProductoID: "p2", Cantidad: 2})
	require.NoError(t, err)

	resp, err = svc.Vaciar(ctx, "c1", false)
	require.NoError(t, err)
	assert.Equal(t, "Carrito vaciado", resp.Mensaje)
	assert.True(t, resp.TotalPrecio.IsZero())
	assert.True(t, carritos.carritos["c1"].Abierto, "vaciar no cierra el panel")
}

func TestCarrito_VaciarSilencioso(t *testing.T) {
	_, svc := newCarritoFixture()

	resp, err := svc.Vaciar(context.Background(), "c1", true)

	require.NoError(t, err)
	assert.Empty(t, resp.Mensaje)
}

func TestCarrito_SetAbiertoSinMensaje(t *testing.T) {
	_, svc := newCarritoFixture()

	resp, err := svc.SetAbierto(context.Background(), "c1", true)

	require.NoError(t, err)
	assert.True(t, resp.Abierto)
	assert.Empty(t, resp.Mensaje)
}

func TestCarrito_ErrorDePersistencia(t *testing.T) {
	carritos, svc := newCarritoFixture()
	carritos.updateErr = errors.New("redis down")

	_, err := svc.Agregar(context.Background(), "c1", dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})

	assert.EqualError(t, err, "redis down")
}

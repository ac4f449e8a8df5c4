package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prod(id string, precio int64) Producto {
	return Producto{ID: id, Nombre: "Producto " + id, Precio: decimal.NewFromInt(precio), Stock: 10}
}

func TestAgregar_MismoProductoIncrementa(t *testing.T) {
	var c Carrito
	c.Agregar(prod("p1", 100), 1)
	c.Agregar(prod("p1", 100), 1)

	require.Len(t, c.Lineas, 1)
	assert.Equal(t, 2, c.Lineas[0].Cantidad)
}

func TestAgregar_CantidadNoPositivaCuentaComoUno(t *testing.T) {
	var c Carrito
	c.Agregar(prod("p1", 100), 0)
	c.Agregar(prod("p2", 100), -3)

	assert.Equal(t, 2, c.TotalItems())
}

func TestActualizarCantidad_CeroONegativoQuitaLinea(t *testing.T) {
	for _, cantidad := range []int{0, -1} {
		var c Carrito
		c.Agregar(prod("p1", 100), 3)
		c.Agregar(prod("p2", 50), 1)

		assert.True(t, c.ActualizarCantidad("p1", cantidad))
		_, ok := c.Linea("p1")
		assert.False(t, ok, "cantidad %d", cantidad)
		for _, l := range c.Lineas {
			assert.GreaterOrEqual(t, l.Cantidad, 1)
		}
	}
}

func TestActualizarCantidad_FijaValorExacto(t *testing.T) {
	var c Carrito
	c.Agregar(prod("p1", 100), 3)

	c.ActualizarCantidad("p1", 7)

	l, ok := c.Linea("p1")
	require.True(t, ok)
	assert.Equal(t, 7, l.Cantidad)
	assert.False(t, c.ActualizarCantidad("inexistente", 2))
}

func TestQuitar_InexistenteEsNoOp(t *testing.T) {
	var c Carrito
	c.Agregar(prod("p1", 100), 1)

	assert.False(t, c.Quitar("p9"))
	assert.Len(t, c.Lineas, 1)
	assert.True(t, c.Quitar("p1"))
	assert.True(t, c.Vacio())
}

func TestTotales_TrasCadaMutacion(t *testing.T) {
	var c Carrito
	check := func() {
		items := 0
		precio := decimal.Zero
		for _, l := range c.Lineas {
			items += l.Cantidad
			precio = precio.Add(l.Producto.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad))))
		}
		assert.Equal(t, items, c.TotalItems())
		assert.True(t, precio.Equal(c.TotalPrecio()), "esperado %s, obtenido %s", precio, c.TotalPrecio())
	}

	c.Agregar(prod("p1", 100), 2)
	check()
	c.Agregar(prod("p2", 35), 1)
	check()
	c.ActualizarCantidad("p2", 4)
	check()
	c.Quitar("p1")
	check()
	assert.True(t, decimal.NewFromInt(140).Equal(c.TotalPrecio()))
	c.Vaciar()
	check()
	assert.Equal(t, 0, c.TotalItems())
}

func TestVaciar_ConservaEstadoDelPanel(t *testing.T) {
	c := Carrito{Abierto: true}
	c.Agregar(prod("p1", 100), 1)

	c.Vaciar()

	assert.True(t, c.Vacio())
	assert.True(t, c.Abierto)
}

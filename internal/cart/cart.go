// Package cart holds the shopping cart aggregate. It is pure in-memory state;
// persistence is handled by the repository layer.
package cart

import (
	"github.com/shopspring/decimal"
)

// Producto is the product snapshot captured when a line is added.
// Precio is informative only: checkout re-reads prices from the catalog.
type Producto struct {
	ID         string          `json:"id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Stock      int             `json:"stock"`
	ImagenURL  string          `json:"imagen_url,omitempty"`
	VendedorID int             `json:"vendedor_id"`
}

// Linea is one cart line. Cantidad is always >= 1.
type Linea struct {
	Producto Producto `json:"producto"`
	Cantidad int      `json:"cantidad"`
}

// Subtotal returns Precio * Cantidad.
func (l Linea) Subtotal() decimal.Decimal {
	return l.Producto.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// Carrito keeps lines unique by product id, in insertion order.
type Carrito struct {
	Lineas  []Linea `json:"lineas"`
	Abierto bool    `json:"abierto"`
}

// Agregar increments the existing line for p or appends a new one.
// A non-positive cantidad counts as 1.
func (c *Carrito) Agregar(p Producto, cantidad int) {
	if cantidad < 1 {
		cantidad = 1
	}
	if i := c.indice(p.ID); i >= 0 {
		c.Lineas[i].Cantidad += cantidad
		return
	}
	c.Lineas = append(c.Lineas, Linea{Producto: p, Cantidad: cantidad})
}

// ActualizarCantidad sets the quantity exactly; cantidad <= 0 removes the line.
// It reports whether a line for productoID existed.
func (c *Carrito) ActualizarCantidad(productoID string, cantidad int) bool {
	i := c.indice(productoID)
	if i < 0 {
		return false
	}
	if cantidad <= 0 {
		c.Lineas = append(c.Lineas[:i], c.Lineas[i+1:]...)
		return true
	}
	c.Lineas[i].Cantidad = cantidad
	return true
}

// Quitar deletes the line if present and reports whether it did.
func (c *Carrito) Quitar(productoID string) bool {
	i := c.indice(productoID)
	if i < 0 {
		return false
	}
	c.Lineas = append(c.Lineas[:i], c.Lineas[i+1:]...)
	return true
}

// Vaciar removes every line. The panel state is left alone.
func (c *Carrito) Vaciar() {
	c.Lineas = nil
}

func (c *Carrito) Vacio() bool { return len(c.Lineas) == 0 }

// TotalItems is the sum of quantities.
func (c *Carrito) TotalItems() int {
	total := 0
	for _, l := range c.Lineas {
		total += l.Cantidad
	}
	return total
}

// TotalPrecio is the sum of price * quantity over all lines.
func (c *Carrito) TotalPrecio() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lineas {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Linea returns the line for productoID.
func (c *Carrito) Linea(productoID string) (Linea, bool) {
	if i := c.indice(productoID); i >= 0 {
		return c.Lineas[i], true
	}
	return Linea{}, false
}

func (c *Carrito) indice(productoID string) int {
	for i, l := range c.Lineas {
		if l.Producto.ID == productoID {
			return i
		}
	}
	return -1
}

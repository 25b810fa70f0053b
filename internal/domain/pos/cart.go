// Package pos contiene el carrito del punto de venta.
package pos

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

var (
	// ErrOutOfStock el producto no tiene existencias.
	ErrOutOfStock = errors.New("producto sin stock")
	// ErrExceedsStock la cantidad pedida supera el stock disponible al agregar el producto.
	ErrExceedsStock = errors.New("la cantidad supera el stock disponible")
	// ErrItemNotInCart el producto no está en el carrito.
	ErrItemNotInCart = errors.New("el producto no está en el carrito")
)

// LineItem línea del carrito. UnitCost y AvailableStock son instantáneas tomadas
// cuando el producto se agregó por primera vez.
type LineItem struct {
	ProductID      string
	Name           string
	Quantity       int
	UnitPrice      decimal.Decimal
	UnitCost       decimal.Decimal
	AvailableStock int
}

// Subtotal cantidad × precio.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Profit (precio - costo) × cantidad.
func (l LineItem) Profit() decimal.Decimal {
	return l.UnitPrice.Sub(l.UnitCost).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito en memoria de una sesión de caja. No es seguro para uso concurrente;
// lo posee un único cliente.
type Cart struct {
	lines []LineItem
}

// NewCart crea un carrito vacío.
func NewCart() *Cart { return &Cart{} }

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add agrega una unidad del producto. Si ya está en el carrito incrementa la cantidad
// contra la instantánea de stock de esa línea.
func (c *Cart) Add(p entity.Product) error {
	if i := c.index(p.ID); i >= 0 {
		line := &c.lines[i]
		if line.Quantity+1 > line.AvailableStock {
			return ErrExceedsStock
		}
		line.Quantity++
		return nil
	}
	if p.CurrentStock <= 0 {
		return ErrOutOfStock
	}
	c.lines = append(c.lines, LineItem{
		ProductID:      p.ID,
		Name:           p.Name,
		Quantity:       1,
		UnitPrice:      p.SalePrice,
		UnitCost:       p.Cost(),
		AvailableStock: p.CurrentStock,
	})
	return nil
}

// UpdateQuantity fija la cantidad de una línea. n <= 0 elimina la línea;
// n mayor que la instantánea de stock devuelve ErrExceedsStock sin modificar el carrito.
func (c *Cart) UpdateQuantity(productID string, n int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotInCart
	}
	if n <= 0 {
		c.removeAt(i)
		return nil
	}
	if n > c.lines[i].AvailableStock {
		return ErrExceedsStock
	}
	c.lines[i].Quantity = n
	return nil
}

// Remove elimina la línea del producto.
func (c *Cart) Remove(productID string) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotInCart
	}
	c.removeAt(i)
	return nil
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear vacía el carrito.
func (c *Cart) Clear() { c.lines = nil }

// Items devuelve una copia de las líneas en orden de inserción.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len número de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total Σ precio × cantidad.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalProfit Σ (precio - costo) × cantidad.
func (c *Cart) TotalProfit() decimal.Decimal {
	profit := decimal.Zero
	for _, l := range c.lines {
		profit = profit.Add(l.Profit())
	}
	return profit
}

// Change cambio a devolver en un pago en efectivo. ok es false si lo recibido no cubre el total.
func Change(total, received decimal.Decimal) (change decimal.Decimal, ok bool) {
	if received.LessThan(total) {
		return decimal.Zero, false
	}
	return received.Sub(total), true
}

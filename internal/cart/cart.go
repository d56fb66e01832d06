// Package cart aggregates line items by product id.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps lines in insertion order. The zero value is an empty cart.
type Cart struct {
	lines []Item
}

func New(items ...Item) *Cart {
	c := &Cart{}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Add merges item into the line with the same product id, or appends a new line.
// Items with a non-positive quantity are ignored.
func (c *Cart) Add(item Item) {
	if item.Quantity <= 0 {
		return
	}
	if i := c.index(item.ProductID); i >= 0 {
		c.lines[i].Quantity += item.Quantity
		return
	}
	c.lines = append(c.lines, item)
}

// SetQuantity overwrites the quantity of a line; q <= 0 removes it.
// It reports whether the line existed.
func (c *Cart) SetQuantity(id uuid.UUID, q int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	if q <= 0 {
		c.removeAt(i)
		return true
	}
	c.lines[i].Quantity = q
	return true
}

func (c *Cart) Remove(id uuid.UUID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *Cart) Clear() { c.lines = nil }

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Item {
	out := make([]Item, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) index(id uuid.UUID) int {
	for i, l := range c.lines {
		if l.ProductID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when adding fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidProduct is returned for a product without id or with a negative price.
	ErrInvalidProduct = errors.New("invalid product")
)

// Product is the catalog entry a cart line is snapshotted from.
type Product struct {
	ID    string
	Type  string
	Name  string
	Image string
	Price decimal.Decimal
}

// CartItem is one product's presence in the cart. Name, Image and UnitPrice are
// captured when the product is first added and may go stale.
type CartItem struct {
	ProductID   string          `json:"productId"`
	ProductType string          `json:"productType,omitempty"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is UnitPrice × Quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product.
// The zero value is an empty cart.
type Cart struct {
	items []CartItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from a snapshot. Lines for the same product are merged
// and lines with a non-positive quantity are dropped.
func Restore(items []CartItem) *Cart {
	c := New()
	for _, item := range items {
		if item.Quantity < 1 || strings.TrimSpace(item.ProductID) == "" {
			continue
		}
		if i := c.index(item.ProductID); i >= 0 {
			c.items[i].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

// Add puts quantity units of p in the cart. A product already present has its
// quantity increased and keeps its original snapshot.
func (c *Cart) Add(p Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if strings.TrimSpace(p.ID) == "" || p.Price.IsNegative() {
		return ErrInvalidProduct
	}

	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return nil
	}

	c.items = append(c.items, CartItem{
		ProductID:   p.ID,
		ProductType: p.Type,
		Name:        p.Name,
		Image:       p.Image,
		UnitPrice:   p.Price,
		Quantity:    quantity,
	})
	return nil
}

// AddOne adds a single unit.
func (c *Cart) AddOne(p Product) error {
	return c.Add(p, 1)
}

// Remove drops the product's line. Unknown products are ignored.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// SetQuantity replaces the quantity of a line; n <= 0 removes it. Unknown products are ignored.
func (c *Cart) SetQuantity(productID string, n int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if n <= 0 {
		c.Remove(productID)
		return
	}
	c.items[i].Quantity = n
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount is the total number of units.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct products.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) index(productID string) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

package cart

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// ErrInvalidInput is returned when an item fails validation.
var ErrInvalidInput = common.ErrInvalidInput

// Cart is the in-session list of units a shopper intends to buy.
type Cart struct {
	mu       sync.Mutex
	items    []pricing.LineItem
	validate *validator.Validate
}

// New returns an empty cart. A nil validator selects a default instance.
func New(v *validator.Validate) *Cart {
	if v == nil {
		v = validator.New()
	}
	return &Cart{validate: v}
}

// Add appends one unit to the cart.
func (c *Cart) Add(item pricing.LineItem) error {
	if err := c.validator().Struct(item); err != nil {
		return fmt.Errorf("cart item %q: %v: %w", item.Name, err, ErrInvalidInput)
	}
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
	return nil
}

// Items returns a snapshot of the cart contents in insertion order.
func (c *Cart) Items() []pricing.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]pricing.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of units in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func (c *Cart) validator() *validator.Validate {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.validate == nil {
		c.validate = validator.New()
	}
	return c.validate
}

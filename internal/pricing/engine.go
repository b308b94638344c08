package pricing

import (
	"sort"
	"strings"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// DefaultPromotedCategory is the category the sample catalog runs its buy-one-get-one promotion on.
const DefaultPromotedCategory = "Fashion"

// LineItem describes one unit added to a cart.
type LineItem struct {
	Name      string `json:"name" validate:"required"`
	UnitPrice Money  `json:"unit_price" validate:"gte=0"`
	Category  string `json:"category" validate:"required"`
}

// ReceiptLine is a single charged entry on a receipt.
type ReceiptLine struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice Money  `json:"unit_price"`
	Charged   Money  `json:"charged"`
	IsFree    bool   `json:"is_free"`
}

// Receipt aggregates the priced lines of a cart snapshot.
type Receipt struct {
	Lines     []ReceiptLine `json:"lines"`
	Total     Money         `json:"total"`
	FreeCount int           `json:"free_count"`
	Savings   Money         `json:"savings"`
}

// Price applies the buy-one-get-one rule for promotedCategory to cart.
//
// Items outside the category are emitted first at full price in cart order.
// Items in the category follow, ordered by unit price descending (ties keep
// cart order); every second item of that sequence is free. The cart is not
// modified.
func Price(cart []LineItem, promotedCategory string) Receipt {
	receipt := Receipt{Lines: make([]ReceiptLine, 0, len(cart))}

	var promoted []LineItem
	for _, it := range cart {
		if promotedCategory != "" && it.Category == promotedCategory {
			promoted = append(promoted, it)
			continue
		}
		receipt.add(it, false)
	}

	sort.SliceStable(promoted, func(i, j int) bool {
		return promoted[i].UnitPrice > promoted[j].UnitPrice
	})

	for i := 0; i < len(promoted); i += 2 {
		receipt.add(promoted[i], false)
		if i+1 < len(promoted) {
			receipt.add(promoted[i+1], true)
		}
	}
	return receipt
}

func (r *Receipt) add(it LineItem, free bool) {
	line := ReceiptLine{
		Name:      it.Name,
		Category:  it.Category,
		UnitPrice: it.UnitPrice,
		Charged:   it.UnitPrice,
		IsFree:    free,
	}
	if free {
		line.Charged = 0
		r.FreeCount++
		r.Savings += it.UnitPrice
	}
	r.Total += line.Charged
	r.Lines = append(r.Lines, line)
}

// Pricer binds Price to a configured promoted category.
type Pricer struct {
	Category string
}

// NewPricer returns a Pricer for category. A blank category disables the promotion.
func NewPricer(category string) Pricer {
	return Pricer{Category: strings.TrimSpace(category)}
}

// Price prices cart with the bound category.
func (p Pricer) Price(cart []LineItem) Receipt {
	return Price(cart, p.Category)
}

// Disabled reports whether the pricer applies no promotion.
func (p Pricer) Disabled() bool {
	return p.Category == ""
}

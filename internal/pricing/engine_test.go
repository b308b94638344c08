package pricing

import (
	"math/rand"
	"reflect"
	"testing"
)

func fashion(name string, dollars int64) LineItem {
	return LineItem{Name: name, UnitPrice: Dollars(dollars), Category: "Fashion"}
}

func TestPriceEmptyCart(t *testing.T) {
	receipt := Price(nil, "Fashion")
	if len(receipt.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(receipt.Lines))
	}
	if receipt.Total != 0 || receipt.FreeCount != 0 {
		t.Fatalf("expected zero total, got %+v", receipt)
	}
}

func TestPriceWithoutPromotedItems(t *testing.T) {
	cart := []LineItem{
		{Name: "Dell Laptop", UnitPrice: Dollars(1000), Category: "Electronics"},
		{Name: "iPhone 15", UnitPrice: Dollars(900), Category: "Electronics"},
		{Name: "Monitor", UnitPrice: Dollars(500), Category: "Electronics"},
	}
	receipt := Price(cart, "Fashion")
	if receipt.Total != Dollars(2400) {
		t.Fatalf("expected total 2400, got %d", receipt.Total)
	}
	for i, line := range receipt.Lines {
		if line.Name != cart[i].Name || line.Charged != cart[i].UnitPrice || line.IsFree {
			t.Fatalf("line %d charged incorrectly: %+v", i, line)
		}
	}
	if disabled := Price(cart, ""); !reflect.DeepEqual(disabled, receipt) {
		t.Fatalf("expected same receipt as with promotions disabled")
	}
}

func TestPriceSinglePromotedItem(t *testing.T) {
	receipt := Price([]LineItem{fashion("Cap", 40)}, "Fashion")
	if len(receipt.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(receipt.Lines))
	}
	line := receipt.Lines[0]
	if line.Charged != Dollars(40) || line.IsFree {
		t.Fatalf("single item must be paid: %+v", line)
	}
	if receipt.Total != Dollars(40) {
		t.Fatalf("expected total 40, got %d", receipt.Total)
	}
}

func TestPriceEvenPair(t *testing.T) {
	receipt := Price([]LineItem{fashion("Jeans", 80), fashion("Shirt", 100)}, "Fashion")
	want := []ReceiptLine{
		{Name: "Shirt", Category: "Fashion", UnitPrice: Dollars(100), Charged: Dollars(100)},
		{Name: "Jeans", Category: "Fashion", UnitPrice: Dollars(80), Charged: 0, IsFree: true},
	}
	if !reflect.DeepEqual(receipt.Lines, want) {
		t.Fatalf("unexpected lines: %+v", receipt.Lines)
	}
	if receipt.Total != Dollars(100) || receipt.Savings != Dollars(80) || receipt.FreeCount != 1 {
		t.Fatalf("unexpected totals: %+v", receipt)
	}
}

func TestPriceOddTrioKeepsCartOrderOnTies(t *testing.T) {
	receipt := Price([]LineItem{fashion("A", 50), fashion("B", 50), fashion("C", 40)}, "Fashion")
	names := []string{receipt.Lines[0].Name, receipt.Lines[1].Name, receipt.Lines[2].Name}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected order: %v", names)
	}
	if receipt.Lines[0].IsFree || !receipt.Lines[1].IsFree || receipt.Lines[2].IsFree {
		t.Fatalf("expected A paid, B free, C paid: %+v", receipt.Lines)
	}
	if receipt.Total != Dollars(90) {
		t.Fatalf("expected total 90, got %d", receipt.Total)
	}
}

func TestPriceMixedCartEmitsOthersFirst(t *testing.T) {
	cart := []LineItem{
		fashion("Levis Jeans", 80),
		{Name: "Dell Laptop", UnitPrice: Dollars(1000), Category: "Electronics"},
		fashion("Nike Cap", 40),
		fashion("Gucci Shirt", 100),
		{Name: "Coffee Mug", UnitPrice: Dollars(15), Category: "Home"},
	}
	original := append([]LineItem(nil), cart...)

	receipt := Price(cart, "Fashion")

	var names []string
	for _, line := range receipt.Lines {
		names = append(names, line.Name)
	}
	want := []string{"Dell Laptop", "Coffee Mug", "Gucci Shirt", "Levis Jeans", "Nike Cap"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected emission order: %v", names)
	}
	if receipt.Total != Dollars(1155) {
		t.Fatalf("expected total 1155, got %d", receipt.Total)
	}
	if !reflect.DeepEqual(cart, original) {
		t.Fatalf("cart was mutated: %+v", cart)
	}
}

func TestPriceInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Fashion", "Electronics", "Home"}
	for run := 0; run < 500; run++ {
		n := rng.Intn(30)
		cart := make([]LineItem, n)
		for i := range cart {
			cart[i] = LineItem{
				Name:      string(rune('a' + i%26)),
				UnitPrice: Money(rng.Intn(20) * 500),
				Category:  categories[rng.Intn(len(categories))],
			}
		}
		receipt := Price(cart, "Fashion")

		var sum, others Money
		var promoted []LineItem
		for _, it := range cart {
			if it.Category == "Fashion" {
				promoted = append(promoted, it)
			} else {
				others += it.UnitPrice
			}
		}
		for _, line := range receipt.Lines {
			sum += line.Charged
		}
		if sum != receipt.Total {
			t.Fatalf("run %d: total %d != sum of charged %d", run, receipt.Total, sum)
		}
		if receipt.FreeCount != len(promoted)/2 {
			t.Fatalf("run %d: free count %d, want %d", run, receipt.FreeCount, len(promoted)/2)
		}

		promotedLines := receipt.Lines[len(cart)-len(promoted):]
		expected := others
		for i := 0; i < len(promotedLines); i += 2 {
			expected += promotedLines[i].Charged
			if i+1 < len(promotedLines) {
				paid, free := promotedLines[i], promotedLines[i+1]
				if !free.IsFree || paid.IsFree || free.Charged != 0 {
					t.Fatalf("run %d: pair %d flagged wrong: %+v %+v", run, i/2, paid, free)
				}
				if paid.UnitPrice < free.UnitPrice {
					t.Fatalf("run %d: free item priced above paid item", run)
				}
			}
		}
		if expected != receipt.Total {
			t.Fatalf("run %d: conservation broken, %d != %d", run, expected, receipt.Total)
		}

		shuffled := append([]LineItem(nil), cart...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			if shuffled[i].Category != "Fashion" && shuffled[j].Category != "Fashion" {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			}
		})
		if got := Price(shuffled, "Fashion").Total; got != receipt.Total {
			t.Fatalf("run %d: permuting other items changed total %d -> %d", run, receipt.Total, got)
		}
	}
}

func TestPricerBoundCategory(t *testing.T) {
	p := NewPricer(" " + DefaultPromotedCategory + " ")
	if p.Category != DefaultPromotedCategory || p.Disabled() {
		t.Fatalf("unexpected pricer %+v", p)
	}
	cart := []LineItem{fashion("Shirt", 100), fashion("Jeans", 80)}
	if receipt := p.Price(cart); receipt.Total != Dollars(100) {
		t.Fatalf("expected BOGO via pricer, got %d", receipt.Total)
	}

	off := NewPricer("  ")
	if !off.Disabled() {
		t.Fatalf("blank category should disable the promotion: %+v", off)
	}
	receipt := off.Price(cart)
	if receipt.Total != Dollars(180) || receipt.FreeCount != 0 {
		t.Fatalf("disabled pricer charged %d with %d free", receipt.Total, receipt.FreeCount)
	}
}

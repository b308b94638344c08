package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/cart"
	"github.com/noah-isme/toko-pos/internal/catalog"
	"github.com/noah-isme/toko-pos/internal/menu"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

const rule = "--------------------------"

// ShopCommands builds the checkout menu over one in-memory cart.
func ShopCommands(products *catalog.Service, svc *cart.Service, c *cart.Cart) menu.Table {
	return menu.Table{
		{Key: "1", Label: "View Catalog", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			list, err := products.List(ctx)
			if err != nil {
				return menu.Result{}, err
			}
			lines := []string{"", "--- PRODUCT CATALOG ---"}
			for _, p := range list {
				lines = append(lines, fmt.Sprintf("%d | %s | %s | [%s]", p.ID, p.Name, pricing.FormatMoney(p.Price), p.Category))
			}
			return menu.Say(append(lines, rule)...), nil
		}},
		{Key: "2", Label: "Add Item (ID)", Run: func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			id, err := p.Int("Enter Product ID: ", "product ID")
			if err != nil {
				return menu.Result{}, err
			}
			item, err := svc.AddByID(ctx, c, id)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(fmt.Sprintf("Added to Cart: %s (%s)", item.Name, pricing.FormatMoney(item.UnitPrice))), nil
		}},
		{Key: "3", Label: "View Cart", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			items := c.Items()
			if len(items) == 0 {
				return menu.Say("", "Cart is empty."), nil
			}
			lines := []string{"", fmt.Sprintf("Items in Cart: %d", len(items))}
			for _, it := range items {
				lines = append(lines, fmt.Sprintf(" - %s (%s)", it.Name, pricing.FormatMoney(it.UnitPrice)))
			}
			return menu.Say(lines...), nil
		}},
		{Key: "4", Label: "Clear Cart", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			c.Clear()
			return menu.Say("Cart Emptied."), nil
		}},
		{Key: "5", Label: "Checkout", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			receipt, err := svc.Checkout(ctx, c)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(ReceiptLines(receipt)...), nil
		}},
		{Key: "6", Label: "Exit", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{Lines: []string{"Exiting Store."}, Quit: true}, nil
		}},
	}
}

// ReceiptLines renders a priced receipt.
func ReceiptLines(r pricing.Receipt) []string {
	lines := []string{"", "--- FINAL RECEIPT ---"}
	for _, l := range r.Lines {
		if l.IsFree {
			lines = append(lines, fmt.Sprintf("  %s: %s (BOGO Promo!)", l.Name, pricing.FormatMoney(0)))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", l.Name, pricing.FormatMoney(l.Charged)))
	}
	lines = append(lines, rule, "GRAND TOTAL: "+pricing.FormatMoney(r.Total))
	if r.Savings > 0 {
		lines = append(lines, fmt.Sprintf("You saved %s on %d free item(s).", pricing.FormatMoney(r.Savings), r.FreeCount))
	}
	return append(lines, rule, "Transaction Saved.")
}

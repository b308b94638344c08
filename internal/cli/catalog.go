package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/catalog"
	"github.com/noah-isme/toko-pos/internal/menu"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// CatalogCommands builds the stock maintenance menu.
func CatalogCommands(svc *catalog.Service) menu.Table {
	return menu.Table{
		{Key: "1", Label: "View Catalog", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			list, err := svc.List(ctx)
			if err != nil {
				return menu.Result{}, err
			}
			lines := []string{"", "--- PRODUCT CATALOG ---"}
			for _, p := range list {
				lines = append(lines, fmt.Sprintf("%d | %s | %s | [%s]", p.ID, p.Name, pricing.FormatMoney(p.Price), p.Category))
			}
			return menu.Say(append(lines, rule)...), nil
		}},
		{Key: "2", Label: "Add Product", Run: func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			id, err := p.Int("New Product ID: ", "product ID")
			if err != nil {
				return menu.Result{}, err
			}
			name, err := p.Text("Name: ")
			if err != nil {
				return menu.Result{}, err
			}
			price, err := p.Money("Price: ")
			if err != nil {
				return menu.Result{}, err
			}
			category, err := p.Text("Category: ")
			if err != nil {
				return menu.Result{}, err
			}
			product := catalog.Product{ID: id, Name: name, Price: price, Category: category}
			if err := svc.Add(ctx, product); err != nil {
				return menu.Result{}, err
			}
			return menu.Say(fmt.Sprintf("Product Added: %d | %s | %s", id, name, pricing.FormatMoney(price))), nil
		}},
		{Key: "3", Label: "Exit", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{Lines: []string{"Catalog closed."}, Quit: true}, nil
		}},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/menu"
)

// LeaveCommands builds the leave portal menu.
func LeaveCommands(svc *leave.Service) menu.Table {
	return menu.Table{
		{Key: "1", Label: "Apply Leave", Run: func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			id, err := p.Int("Enter Employee ID: ", "employee ID")
			if err != nil {
				return menu.Result{}, err
			}
			days, err := p.Int("Days needed: ", "days")
			if err != nil {
				return menu.Result{}, err
			}
			d, err := svc.Apply(ctx, id, int(days))
			if err != nil {
				return menu.Result{}, err
			}
			if !d.Approved {
				return menu.Say(fmt.Sprintf("DENIED: %s requested %d, but has only %d.", d.Employee.Name, d.Requested, d.Balance)), nil
			}
			return menu.Say(
				fmt.Sprintf("APPROVED: %s took %d days.", d.Employee.Name, d.Requested),
				fmt.Sprintf("   New Balance: %d days.", d.Balance),
			), nil
		}},
		{Key: "2", Label: "View Roster", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			roster, err := svc.List(ctx)
			if err != nil {
				return menu.Result{}, err
			}
			lines := []string{"", "--- COMPANY ROSTER ---"}
			for _, e := range roster {
				lines = append(lines, fmt.Sprintf("%d | %s | Balance: %d", e.ID, e.Name, e.Balance))
			}
			return menu.Say(append(lines, rule)...), nil
		}},
		{Key: "3", Label: "Add Employee", Run: func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			id, err := p.Int("New ID: ", "ID")
			if err != nil {
				return menu.Result{}, err
			}
			name, err := p.Text("Name: ")
			if err != nil {
				return menu.Result{}, err
			}
			balance, err := p.Int("Starting Balance: ", "balance")
			if err != nil {
				return menu.Result{}, err
			}
			if err := svc.Add(ctx, leave.Employee{ID: id, Name: name, Balance: int(balance)}); err != nil {
				return menu.Result{}, err
			}
			return menu.Say("Employee Added: " + name), nil
		}},
		{Key: "4", Label: "Simulate Month End", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			res, err := svc.Rollover(ctx)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(
				"",
				"--- RUNNING AUTOMATED ROLLOVER ---",
				fmt.Sprintf("   -> %d employees received +%d days.", res.Affected, res.Accrual),
				fmt.Sprintf("   -> Caps enforced at %d days.", res.Cap),
			), nil
		}},
		{Key: "5", Label: "Exit", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{Lines: []string{"System Shutdown."}, Quit: true}, nil
		}},
	}
}

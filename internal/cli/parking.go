package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/toko-pos/internal/menu"
	"github.com/noah-isme/toko-pos/internal/parking"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// ParkingCommands builds the parking allocator menu.
func ParkingCommands(svc *parking.Service) menu.Table {
	park := func(kind parking.Kind) func(context.Context, *menu.Prompt) (menu.Result, error) {
		return func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			plate, err := p.Text("Enter Plate Number: ")
			if err != nil {
				return menu.Result{}, err
			}
			vip, err := p.YesNo("Are you VIP? (yes/no): ")
			if err != nil {
				return menu.Result{}, err
			}
			entry, err := svc.Park(ctx, plate, kind, vip)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(
				"",
				entry.Notice,
				fmt.Sprintf("%s %s Parked at %s", entry.Vehicle.Kind, entry.Vehicle.Plate, entry.Vehicle.EntryTime.Format(parking.TimeLayout)),
			), nil
		}
	}
	return menu.Table{
		{Key: "1", Label: "Park Car", Run: park(parking.KindCar)},
		{Key: "2", Label: "Park Bike", Run: park(parking.KindBike)},
		{Key: "3", Label: "Exit Vehicle", Run: func(ctx context.Context, p *menu.Prompt) (menu.Result, error) {
			plate, err := p.Text("Enter Plate Number: ")
			if err != nil {
				return menu.Result{}, err
			}
			t, err := svc.Exit(ctx, plate)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(TicketLines(t)...), nil
		}},
		{Key: "4", Label: "Analytics", Run: func(ctx context.Context, _ *menu.Prompt) (menu.Result, error) {
			s, err := svc.Analytics(ctx)
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(
				"",
				"Live Analytics:",
				fmt.Sprintf("Total: %d/%d", s.Total, s.Slots),
				fmt.Sprintf("Cars: %d | Bikes: %d", s.Cars, s.Bikes),
				fmt.Sprintf("VIPs currently parked: %d", s.VIPs),
			), nil
		}},
		{Key: "5", Label: "Exit", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{Quit: true}, nil
		}},
	}
}

// TicketLines renders an exit ticket.
func TicketLines(t parking.Ticket) []string {
	return []string{
		"",
		"--- RECEIPT ---",
		fmt.Sprintf("Vehicle: %s (%s)", t.Vehicle.Plate, t.Vehicle.Kind),
		"Status:  " + t.Policy.Status,
		"Time:    " + t.ExitTime.Format(parking.TimeLayout),
		"TOTAL: " + pricing.FormatMoney(t.Amount),
		"------------------",
	}
}

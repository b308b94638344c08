package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/parking"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_URL", filepath.Join(dir, "pos.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("OBS_LOG_LEVEL", "error")
	t.Setenv("OBS_METRICS_TEXTFILE", "")
	t.Setenv("SEED_ON_START", "true")
	return dir
}

func TestShopSession(t *testing.T) {
	isolate(t)
	out, err := run(t, "5\n2\n201\n2\n202\n2\n203\n2\n101\n2\n999\n3\n5\n6\n", "shop")
	require.NoError(t, err)

	require.Contains(t, out, "buy one get one free on Fashion")
	require.Contains(t, out, "Your cart is empty!")
	require.Contains(t, out, "Added to Cart: Gucci Shirt ($100.00)")
	require.Contains(t, out, "Error: product ID 999: not found")
	require.Contains(t, out, "Items in Cart: 4")
	require.Contains(t, out, "Levis Jeans: $0.00 (BOGO Promo!)")
	require.Contains(t, out, "GRAND TOTAL: $1,140.00")
	require.Contains(t, out, "You saved $80.00 on 1 free item(s).")
	require.Contains(t, out, "Exiting Store.")
}

func TestShopSessionWithoutPromotion(t *testing.T) {
	isolate(t)
	t.Setenv("PROMOTED_CATEGORY", "none")
	out, err := run(t, "2\n201\n2\n202\n5\n6\n", "shop")
	require.NoError(t, err)

	require.Contains(t, out, "=== STORE ===")
	require.NotContains(t, out, "buy one get one free")
	require.NotContains(t, out, "BOGO Promo!")
	require.Contains(t, out, "GRAND TOTAL: $180.00")
}

func TestCatalogSession(t *testing.T) {
	isolate(t)
	input := strings.Join([]string{
		"2", "303", "Desk Lamp", "$24.99", "Home",
		"2", "304", "Lamp", "1.234",
		"2", "101", "Dup", "1", "Home",
		"1",
		"3",
	}, "\n") + "\n"
	out, err := run(t, input, "catalog")
	require.NoError(t, err)

	require.Contains(t, out, "Product Added: 303 | Desk Lamp | $24.99")
	require.Contains(t, out, "Error: invalid money amount")
	require.Contains(t, out, "Warning: product ID 101 already exists")
	require.Contains(t, out, "303 | Desk Lamp | $24.99 | [Home]")
	require.NotContains(t, out, "304 | Lamp")
	require.Contains(t, out, "Catalog closed.")
}

func TestLeaveSession(t *testing.T) {
	isolate(t)
	input := strings.Join([]string{
		"1", "101", "5",
		"1", "104", "1",
		"1", "abc",
		"3", "101", "Dup", "1",
		"4",
		"2",
		"5",
	}, "\n") + "\n"
	out, err := run(t, input, "leave")
	require.NoError(t, err)

	require.Contains(t, out, "APPROVED: Alice took 5 days.")
	require.Contains(t, out, "New Balance: 7 days.")
	require.Contains(t, out, "DENIED: Diana requested 1, but has only 0.")
	require.Contains(t, out, "Error: employee ID must be a number")
	require.Contains(t, out, "Warning: employee ID 101 already exists")
	require.Contains(t, out, "4 employees received +2 days.")
	require.Contains(t, out, "102 | Bob | Balance: 30")
	require.Contains(t, out, "101 | Alice | Balance: 9")
	require.Contains(t, out, "System Shutdown.")
}

func TestParkingSession(t *testing.T) {
	isolate(t)
	t.Setenv("PARKING_SLOTS", "1")
	input := strings.Join([]string{
		"1", "B1", "yes",
		"2", "M1", "no",
		"1", "B1", "no",
		"4",
		"3", "ZZ",
		"3", "B1",
		"5",
	}, "\n") + "\n"
	out, err := run(t, input, "parking")
	require.NoError(t, err)

	require.Contains(t, out, "VIP DETECTED: Priority Service enabled for B1")
	require.Contains(t, out, "Parking Full!")
	require.Contains(t, out, "Total: 1/1")
	require.Contains(t, out, "VIPs currently parked: 1")
	require.Contains(t, out, `Error: vehicle "ZZ": not found`)
	require.Contains(t, out, "Status:  VIP (50% Surcharge Applied)")
}

func TestOpsCommands(t *testing.T) {
	isolate(t)
	t.Setenv("SEED_ON_START", "false")

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied (sqlite)")

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	require.Contains(t, out, "products seeded: true")
	require.Contains(t, out, "employees seeded: true")

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	require.Contains(t, out, "products seeded: false")

	out, err = run(t, "", "doctor")
	require.NoError(t, err)
	require.Contains(t, out, "db: ok")
	require.Contains(t, out, "redis: disabled")

	_, err = run(t, "1\n101\n2\n5\n", "leave")
	require.NoError(t, err)
	out, err = run(t, "", "events", "--topic", "leave.applied")
	require.NoError(t, err)
	require.Contains(t, out, "leave.applied")
	require.Contains(t, out, `"approved":true`)
}

func TestReceiptAndTicketLines(t *testing.T) {
	receipt := pricing.Price([]pricing.LineItem{
		{Name: "Gucci Shirt", UnitPrice: 10000, Category: "Fashion"},
		{Name: "Nike Cap", UnitPrice: 4000, Category: "Fashion"},
	}, "Fashion")
	lines := strings.Join(ReceiptLines(receipt), "\n")
	require.Contains(t, lines, "Gucci Shirt: $100.00")
	require.Contains(t, lines, "Nike Cap: $0.00 (BOGO Promo!)")
	require.Contains(t, lines, "GRAND TOTAL: $100.00")

	ticket := parking.Ticket{
		Vehicle:  parking.Vehicle{Plate: "B1", Kind: parking.KindBike},
		ExitTime: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Policy:   parking.Standard,
		Amount:   2500,
	}
	tl := strings.Join(TicketLines(ticket), "\n")
	require.Contains(t, tl, "Vehicle: B1 (Bike)")
	require.Contains(t, tl, "Status:  Standard")
	require.Contains(t, tl, "Time:    2025-01-01 12:00:00")
	require.Contains(t, tl, "TOTAL: $25.00")

	require.Len(t, LeaveCommands(&leave.Service{}), 5)
	require.Len(t, ParkingCommands(&parking.Service{}), 5)
}

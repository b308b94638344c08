package parking

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// TimeLayout is the second-resolution format entry times are stored in.
const TimeLayout = "2006-01-02 15:04:05"

// Kind is the vehicle class.
type Kind string

// Vehicle classes accepted at the gate.
const (
	KindCar  Kind = "Car"
	KindBike Kind = "Bike"
)

// ParseKind accepts "car" or "bike" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "car":
		return KindCar, nil
	case "bike":
		return KindBike, nil
	default:
		return "", fmt.Errorf("unknown vehicle type %q: %w", s, common.ErrInvalidInput)
	}
}

// Rate returns the base price per second in cents.
func Rate(k Kind) pricing.Money {
	if k == KindBike {
		return 50
	}
	return 100
}

// Policy is the pricing and entry strategy applied to a parked vehicle.
type Policy struct {
	Name   string
	Status string
	// Surcharge is Num/Den applied to the base rate.
	Num, Den int64
	notice   string
}

// Built-in policies. VIP pays a 50% surcharge on the base rate.
var (
	Standard = Policy{Name: "standard", Status: "Standard", Num: 1, Den: 1, notice: "Standard Entry for %s"}
	VIP      = Policy{Name: "vip", Status: "VIP (50% Surcharge Applied)", Num: 3, Den: 2, notice: "VIP DETECTED: Priority Service enabled for %s (+50% Fee)"}
)

// PolicyFor selects the policy for a vehicle.
func PolicyFor(vip bool) Policy {
	if vip {
		return VIP
	}
	return Standard
}

// Notice is the message shown when a vehicle under this policy enters.
func (p Policy) Notice(plate string) string {
	if p.notice == "" {
		return ""
	}
	return strings.Replace(p.notice, "%s", plate, 1)
}

// Rate returns the per-second price in cents for k under p.
func (p Policy) Rate(k Kind) pricing.Money {
	den := p.Den
	if den == 0 {
		den = 1
	}
	num := p.Num
	if num == 0 {
		num = 1
	}
	return Rate(k) * num / den
}

// Bill prices a stay of d; partial seconds are not charged.
func (p Policy) Bill(k Kind, d time.Duration) pricing.Money {
	if d <= 0 {
		return 0
	}
	seconds := int64(d / time.Second)
	return seconds * p.Rate(k)
}

package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics groups Prometheus collectors for checkout, leave and parking outcomes.
// A nil *DomainMetrics is valid and records nothing.
type DomainMetrics struct {
	CheckoutTotal     prometheus.Counter
	BogoFreeItems     prometheus.Counter
	ReceiptTotalCents prometheus.Histogram
	LeaveRequests     *prometheus.CounterVec
	LeaveRollovers    prometheus.Counter
	ParkingEvents     *prometheus.CounterVec
	ParkingBillCents  prometheus.Histogram
}

// NewDomainMetrics initialises domain collectors and registers them on reg.
func NewDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &DomainMetrics{
		CheckoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Number of completed checkouts.",
		}),
		BogoFreeItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bogo_free_items_total",
			Help:      "Number of receipt lines given away by the buy-one-get-one promotion.",
		}),
		ReceiptTotalCents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_total_cents",
			Help:      "Distribution of receipt grand totals in cents.",
			Buckets:   []float64{1000, 5000, 10000, 50000, 100000, 250000, 500000},
		}),
		LeaveRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_requests_total",
			Help:      "Count of leave requests by decision.",
		}, []string{"result"}),
		LeaveRollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_rollovers_total",
			Help:      "Number of month end accrual runs.",
		}),
		ParkingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parking_events_total",
			Help:      "Count of parking entries and exits by pricing policy.",
		}, []string{"event", "policy"}),
		ParkingBillCents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parking_bill_cents",
			Help:      "Distribution of parking bills in cents.",
			Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
		}),
	}

	mustRegisterCollector(reg, m.CheckoutTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.CheckoutTotal = v
		}
	})
	mustRegisterCollector(reg, m.BogoFreeItems, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.BogoFreeItems = v
		}
	})
	mustRegisterCollector(reg, m.ReceiptTotalCents, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.ReceiptTotalCents = v
		}
	})
	mustRegisterCollector(reg, m.LeaveRequests, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.LeaveRequests = v
		}
	})
	mustRegisterCollector(reg, m.LeaveRollovers, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.LeaveRollovers = v
		}
	})
	mustRegisterCollector(reg, m.ParkingEvents, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.ParkingEvents = v
		}
	})
	mustRegisterCollector(reg, m.ParkingBillCents, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.ParkingBillCents = v
		}
	})
	return m
}

// ObserveCheckout records a completed checkout.
func (m *DomainMetrics) ObserveCheckout(totalCents int64, freeItems int) {
	if m == nil {
		return
	}
	m.CheckoutTotal.Inc()
	m.BogoFreeItems.Add(float64(freeItems))
	m.ReceiptTotalCents.Observe(float64(totalCents))
}

// ObserveLeave records a leave decision ("approved" or "denied").
func (m *DomainMetrics) ObserveLeave(result string) {
	if m == nil {
		return
	}
	m.LeaveRequests.WithLabelValues(result).Inc()
}

// ObserveRollover records a month end accrual run.
func (m *DomainMetrics) ObserveRollover() {
	if m == nil {
		return
	}
	m.LeaveRollovers.Inc()
}

// ObserveParking records an entry or exit; bill is only observed on exit.
func (m *DomainMetrics) ObserveParking(event, policy string, billCents int64) {
	if m == nil {
		return
	}
	m.ParkingEvents.WithLabelValues(event, policy).Inc()
	if event == "exit" {
		m.ParkingBillCents.Observe(float64(billCents))
	}
}

// WriteTextfile writes the gathered registry in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" || g == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

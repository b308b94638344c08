package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/obs"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// ErrNotFound indicates the requested product could not be located.
var ErrNotFound = common.ErrNotFound

// ErrEmptyCart is returned when checking out a cart with no items.
var ErrEmptyCart = common.NewAppError("cart_empty", "Your cart is empty!", common.KindInvalidInput, common.ErrInvalidInput)

// Lookup resolves product identifiers into line items.
type Lookup interface {
	FindByIdentifier(ctx context.Context, id int64) (pricing.LineItem, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Catalog Lookup
	Pricer  pricing.Pricer
	Events  events.Emitter
	Metrics *obs.DomainMetrics
	Logger  zerolog.Logger
}

// IssuedReceipt is the receipt.issued event payload.
type IssuedReceipt struct {
	ReceiptID        string                `json:"receipt_id"`
	PromotedCategory string                `json:"promoted_category"`
	Lines            []pricing.ReceiptLine `json:"lines"`
	Total            pricing.Money         `json:"total"`
	FreeCount        int                   `json:"free_count"`
	Savings          pricing.Money         `json:"savings"`
}

// AddByID looks up a product and appends it to c.
func (s *Service) AddByID(ctx context.Context, c *Cart, id int64) (pricing.LineItem, error) {
	if s == nil || s.Catalog == nil {
		return pricing.LineItem{}, errors.New("cart service not configured")
	}
	item, err := s.Catalog.FindByIdentifier(ctx, id)
	if err != nil {
		return pricing.LineItem{}, err
	}
	if err := c.Add(item); err != nil {
		return pricing.LineItem{}, err
	}
	logger := obs.Logger(ctx, s.Logger)
	logger.Debug().Int64("product_id", id).Str("name", item.Name).Int("cart_size", c.Len()).Msg("cart item added")
	return item, nil
}

// Checkout prices the cart snapshot, records the receipt and empties the cart.
// A failure to record the event is logged; the receipt is still returned.
func (s *Service) Checkout(ctx context.Context, c *Cart) (pricing.Receipt, error) {
	if s == nil {
		return pricing.Receipt{}, errors.New("cart service not configured")
	}
	snapshot := c.Items()
	if len(snapshot) == 0 {
		return pricing.Receipt{}, ErrEmptyCart
	}
	receipt := s.Pricer.Price(snapshot)
	receiptID := uuid.NewString()
	logger := obs.Logger(ctx, s.Logger)

	if s.Events != nil {
		payload := IssuedReceipt{
			ReceiptID:        receiptID,
			PromotedCategory: s.Pricer.Category,
			Lines:            receipt.Lines,
			Total:            receipt.Total,
			FreeCount:        receipt.FreeCount,
			Savings:          receipt.Savings,
		}
		if _, err := s.Events.Emit(ctx, events.TopicReceiptIssued, receiptID, payload); err != nil {
			logger.Warn().Err(err).Str("receipt_id", receiptID).Msg("receipt event not recorded")
		}
	}
	s.Metrics.ObserveCheckout(receipt.Total, receipt.FreeCount)
	c.Clear()

	logger.Info().
		Str("receipt_id", receiptID).
		Int("lines", len(receipt.Lines)).
		Int64("total", receipt.Total).
		Int("free", receipt.FreeCount).
		Msg("checkout completed")
	return receipt, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = common.ErrNotFound

// Product is a catalog row.
type Product struct {
	ID       int64         `json:"id" validate:"gt=0"`
	Name     string        `json:"name" validate:"required"`
	Price    pricing.Money `json:"price" validate:"gte=0"`
	Category string        `json:"category" validate:"required"`
}

// LineItem converts the product into one cart unit.
func (p Product) LineItem() pricing.LineItem {
	return pricing.LineItem{Name: p.Name, UnitPrice: p.Price, Category: p.Category}
}

// Store defines the persistence operations required by the catalog.
type Store interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	InsertProducts(ctx context.Context, products []Product) error
	CountProducts(ctx context.Context) (int64, error)
}

// DefaultProducts is the stock loaded into an empty catalog.
var DefaultProducts = []Product{
	{ID: 101, Name: "Dell Laptop", Price: pricing.Dollars(1000), Category: "Electronics"},
	{ID: 102, Name: "iPhone 15", Price: pricing.Dollars(900), Category: "Electronics"},
	{ID: 201, Name: "Gucci Shirt", Price: pricing.Dollars(100), Category: "Fashion"},
	{ID: 202, Name: "Levis Jeans", Price: pricing.Dollars(80), Category: "Fashion"},
	{ID: 203, Name: "Nike Cap", Price: pricing.Dollars(40), Category: "Fashion"},
	{ID: 301, Name: "Coffee Mug", Price: pricing.Dollars(15), Category: "Home"},
	{ID: 302, Name: "Bed Sheet", Price: pricing.Dollars(50), Category: "Home"},
}

// Service orchestrates catalog reads, cache lookups and seeding.
type Service struct {
	store    Store
	cache    *Cache
	logger   zerolog.Logger
	validate *validator.Validate
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store     Store
	Cache     *Cache
	Logger    zerolog.Logger
	Validator *validator.Validate
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Service{
		store:    cfg.Store,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		validate: v,
	}, nil
}

// FindByIdentifier resolves a product id into a cart line item.
func (s *Service) FindByIdentifier(ctx context.Context, id int64) (pricing.LineItem, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return pricing.LineItem{}, err
	}
	return product.LineItem(), nil
}

// Get returns a product by id, consulting the cache first.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("product ID %d: %w", id, ErrNotFound)
	}
	key := productKey(id)
	var cached Product
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	} else if hit {
		return cached, nil
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Product{}, fmt.Errorf("product ID %d: %w", id, ErrNotFound)
		}
		return Product{}, fmt.Errorf("catalog: get product %d: %w", id, err)
	}
	if err := s.cache.SetJSON(ctx, key, product); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return product, nil
}

// List returns every product ordered by id.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var cached []Product
	if hit, err := s.cache.GetJSON(ctx, productsKey, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", productsKey).Msg("catalog cache read failed")
	} else if hit {
		return cached, nil
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	if err := s.cache.SetJSON(ctx, productsKey, products); err != nil {
		s.logger.Warn().Err(err).Str("key", productsKey).Msg("catalog cache write failed")
	}
	return products, nil
}

// Add inserts one product and evicts the cached listing.
func (s *Service) Add(ctx context.Context, p Product) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("product %d: %v: %w", p.ID, err, common.ErrInvalidInput)
	}
	if err := s.store.InsertProducts(ctx, []Product{p}); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("product ID %d already exists: %w", p.ID, common.ErrConflict)
		}
		return fmt.Errorf("catalog: insert product %d: %w", p.ID, err)
	}
	if err := s.cache.Delete(ctx, productsKey, productKey(p.ID)); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
	s.logger.Info().Int64("product_id", p.ID).Str("category", p.Category).Msg("product added")
	return nil
}

// Seed loads DefaultProducts when the catalog is empty. It reports whether rows were inserted.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	count, err := s.store.CountProducts(ctx)
	if err != nil {
		return false, fmt.Errorf("catalog: count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	for _, p := range DefaultProducts {
		if err := s.validate.Struct(p); err != nil {
			return false, fmt.Errorf("catalog: seed product %d: %v: %w", p.ID, err, common.ErrInvalidInput)
		}
	}
	if err := s.store.InsertProducts(ctx, DefaultProducts); err != nil {
		return false, fmt.Errorf("catalog: seed products: %w", err)
	}
	if err := s.cache.Delete(ctx, productsKey); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
	s.logger.Info().Int("products", len(DefaultProducts)).Msg("catalog seeded")
	return true, nil
}

// Ping checks the cache connection; the store is probed by its owner.
func (s *Service) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

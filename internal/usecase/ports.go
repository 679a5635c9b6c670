package usecase

import (
	"context"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
)

// Pool names the inventory table a decrement targets.
type Pool string

const (
	PoolProducts Pool = "products"
	PoolSamples  Pool = "samples"
)

// StockDecrement is one conditional decrement inside the reservation batch.
// Title rides along so stock failures can name the item.
type StockDecrement struct {
	Pool  Pool
	ID    string
	Title string
	Qty   int
}

// InventoryRepo reads live stock and commits the reservation batch.
// Reserve must be all-or-nothing: every decrement applies only where
// stock >= qty, and one failing row rolls back the whole batch with an
// *OutOfStockError or *NotFoundError.
type InventoryRepo interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetSample(ctx context.Context, id string) (*domain.Sample, error)
	ListSamples(ctx context.Context) ([]domain.Sample, error)
	Reserve(ctx context.Context, decs []StockDecrement) error
}

// CatalogAdmin is the admin-only write surface of the inventory.
type CatalogAdmin interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CreateSample(ctx context.Context, s *domain.Sample) error
	UpdateSample(ctx context.Context, s *domain.Sample) error
	DeleteSample(ctx context.Context, id string) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, to domain.Status) error
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error)
	Delete(ctx context.Context, id string) error
}

type PromoRepo interface {
	// FindActive returns the active code matching exactly, or ErrNotFound.
	FindActive(ctx context.Context, code string) (*domain.PromoCode, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
	Create(ctx context.Context, p *domain.PromoCode) error
	SetActive(ctx context.Context, id string, active bool) error
}

type ReviewRepo interface {
	Create(ctx context.Context, r *domain.Review) error
	// List filters by product id; empty means all reviews.
	List(ctx context.Context, productID string) ([]domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	List(ctx context.Context) ([]domain.Section, error)
	Create(ctx context.Context, s *domain.Section) error
	Update(ctx context.Context, s *domain.Section) error
	Delete(ctx context.Context, id string) error
}

type OutboxRepo interface {
	InsertOrderPlaced(ctx context.Context, payload []byte) error
}

// IdempotencyStore guards a checkout against duplicate submission. Release
// frees the lock after a failed attempt so the customer can retry.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

package purchaseapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	"go.uber.org/zap"
)

// Purchase outcomes reported to metrics
const (
	OutcomeCreated     = "created"
	OutcomeUnavailable = "unavailable"
	OutcomeNotFound    = "not_found"
	OutcomeDuplicate   = "duplicate"
	OutcomeFailed      = "failed"
)

// PurchaseMetrics records purchase outcomes
type PurchaseMetrics interface {
	RecordPurchase(ctx context.Context, outcome string)
}

// PurchaseCoordinator turns a purchase request into a stock decrement plus a
// purchase record. Both happen in one transaction or not at all.
type PurchaseCoordinator struct {
	refs        store.ReferenceRepository
	scope       TransactionScope
	purchases   store.PurchaseRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	metrics     PurchaseMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// CoordinatorOption configures a PurchaseCoordinator
type CoordinatorOption func(*PurchaseCoordinator)

// WithIdempotency deduplicates requests that carry an idempotency key
func WithIdempotency(idempotency shared.IdempotencyStore, cfg shared.IdempotencyConfig) CoordinatorOption {
	return func(c *PurchaseCoordinator) {
		c.idempotency = idempotency
		c.idemConfig = cfg
	}
}

// WithPurchaseMetrics records outcomes
func WithPurchaseMetrics(metrics PurchaseMetrics) CoordinatorOption {
	return func(c *PurchaseCoordinator) {
		c.metrics = metrics
	}
}

// WithLogger sets the coordinator logger
func WithLogger(logger *zap.Logger) CoordinatorOption {
	return func(c *PurchaseCoordinator) {
		c.logger = logger
	}
}

// WithClock overrides the purchase timestamp source
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *PurchaseCoordinator) {
		c.now = now
	}
}

// NewPurchaseCoordinator creates a new PurchaseCoordinator
func NewPurchaseCoordinator(
	refs store.ReferenceRepository,
	scope TransactionScope,
	purchases store.PurchaseRepository,
	opts ...CoordinatorOption,
) *PurchaseCoordinator {
	c := &PurchaseCoordinator{
		refs:      refs,
		scope:     scope,
		purchases: purchases,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePurchase sells one unit of the item in the shop.
//
// References are resolved before the stock is touched. A sold-out item fails
// with *store.StockUnavailableError and nothing is persisted. A non-empty
// idempotencyKey that was already used fails with shared.ErrDuplicateRequest.
func (c *PurchaseCoordinator) CreatePurchase(ctx context.Context, req store.PurchaseRequest, idempotencyKey string) (*store.Purchase, error) {
	key, err := c.claim(ctx, idempotencyKey)
	if err != nil {
		c.record(ctx, OutcomeDuplicate)
		return nil, err
	}

	purchase, err := c.createPurchase(ctx, req)
	if err != nil {
		c.release(ctx, key)
		c.record(ctx, outcomeOf(err))
		c.logFailure(req, err)
		return nil, err
	}

	c.record(ctx, OutcomeCreated)
	c.logger.Info("Purchase created",
		zap.Int64("purchase_id", purchase.ID),
		zap.Int64("shop_id", purchase.ShopID),
		zap.Int64("electro_item_id", purchase.ElectroItemID),
		zap.Int64("employee_id", purchase.EmployeeID),
	)
	return purchase, nil
}

// GetPurchase returns one purchase; shared.ErrNotFound when absent
func (c *PurchaseCoordinator) GetPurchase(ctx context.Context, id int64) (*store.Purchase, error) {
	return c.purchases.FindByID(ctx, id)
}

func (c *PurchaseCoordinator) createPurchase(ctx context.Context, req store.PurchaseRequest) (*store.Purchase, error) {
	if err := c.resolveReferences(ctx, req); err != nil {
		return nil, err
	}

	var purchase *store.Purchase
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := NewInventoryLedger(repos.Stock()).CheckAndDecrement(ctx, req.ShopID, req.ElectroItemID)
		if err != nil {
			return err
		}
		if !ok {
			return &store.StockUnavailableError{ItemID: req.ElectroItemID, ShopID: req.ShopID}
		}

		p := store.NewPurchase(req, c.now())
		if err := repos.Purchases().Create(ctx, p); err != nil {
			return fmt.Errorf("failed to save purchase: %w", err)
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// resolveReferences checks the four foreign keys in a fixed order
func (c *PurchaseCoordinator) resolveReferences(ctx context.Context, req store.PurchaseRequest) error {
	refs := []struct {
		kind  store.EntityKind
		field string
		id    int64
	}{
		{store.KindElectroItem, "electroItemId", req.ElectroItemID},
		{store.KindEmployee, "employeeId", req.EmployeeID},
		{store.KindShop, "shopId", req.ShopID},
		{store.KindPurchaseType, "purchaseTypeId", req.PurchaseTypeID},
	}

	for _, ref := range refs {
		exists, err := c.refs.Exists(ctx, ref.kind, ref.id)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", ref.kind, err)
		}
		if !exists {
			return &store.ReferenceNotFoundError{Kind: ref.kind, Field: ref.field, ID: ref.id}
		}
	}
	return nil
}

// claim records the idempotency key; it returns the stored key or "" when none applies
func (c *PurchaseCoordinator) claim(ctx context.Context, idempotencyKey string) (string, error) {
	if idempotencyKey == "" || c.idempotency == nil || !c.idemConfig.Enabled {
		return "", nil
	}

	key := "purchase:" + idempotencyKey
	isNew, err := c.idempotency.MarkProcessed(ctx, key, c.idemConfig.TTL)
	if err != nil {
		// Deduplication is skipped while the store is down
		c.logger.Warn("Failed to check idempotency key, processing anyway",
			zap.String("idempotency_key", idempotencyKey),
			zap.Error(err),
		)
		return "", nil
	}
	if !isNew {
		return "", shared.ErrDuplicateRequest
	}
	return key, nil
}

// release frees the key of a failed request so the client can retry
func (c *PurchaseCoordinator) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := c.idempotency.Release(context.WithoutCancel(ctx), key); err != nil {
		c.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (c *PurchaseCoordinator) record(ctx context.Context, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordPurchase(ctx, outcome)
	}
}

func (c *PurchaseCoordinator) logFailure(req store.PurchaseRequest, err error) {
	fields := []zap.Field{
		zap.Int64("shop_id", req.ShopID),
		zap.Int64("electro_item_id", req.ElectroItemID),
		zap.Error(err),
	}
	switch outcomeOf(err) {
	case OutcomeUnavailable:
		c.logger.Info("Purchase rejected: stock unavailable", fields...)
	case OutcomeNotFound:
		c.logger.Info("Purchase rejected: reference not found", fields...)
	default:
		c.logger.Error("Purchase failed", fields...)
	}
}

func outcomeOf(err error) string {
	var unavailable *store.StockUnavailableError
	var refErr *store.ReferenceNotFoundError
	var stockErr *store.StockRecordNotFoundError
	switch {
	case errors.As(err, &unavailable):
		return OutcomeUnavailable
	case errors.As(err, &refErr), errors.As(err, &stockErr):
		return OutcomeNotFound
	case errors.Is(err, shared.ErrDuplicateRequest):
		return OutcomeDuplicate
	default:
		return OutcomeFailed
	}
}

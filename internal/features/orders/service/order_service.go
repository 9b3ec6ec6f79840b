package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront/internal/core/auth"
	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"
	"storefront/internal/features/orders/domain"
	"storefront/internal/features/orders/ports"

	"go.uber.org/zap"
)

// OrderServiceImpl implements ports.OrderService.
type OrderServiceImpl struct {
	repo        ports.OrderRepository
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	exporter    ports.OrderExporter
	acceptance  ports.AcceptanceChecker
	now         func() time.Time
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(
	repo ports.OrderRepository,
	idempotency ports.IdempotencyStore,
	events ports.EventPublisher,
	exporter ports.OrderExporter,
	acceptance ports.AcceptanceChecker,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		repo:        repo,
		idempotency: idempotency,
		events:      events,
		exporter:    exporter,
		acceptance:  acceptance,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and persists an order for the caller.
// A repeated idempotency key returns the order created by the first request.
func (s *OrderServiceImpl) Create(ctx context.Context, caller auth.Principal, in domain.NewOrderInput) (*domain.Order, bool, error) {
	accepting, err := s.acceptance.AcceptingOrders(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("service: failed to read order acceptance: %w", err)
	}
	if !accepting {
		metrics.OrdersCreated.WithLabelValues("rejected").Inc()
		return nil, false, domain.ErrOrdersClosed
	}

	in.UserID = caller.UserID
	order, err := domain.NewOrder(in, s.now())
	if err != nil {
		metrics.OrdersCreated.WithLabelValues("rejected").Inc()
		return nil, false, err
	}

	if in.IdempotencyKey != "" {
		existing, err := s.claim(ctx, caller.UserID, in.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			metrics.OrdersCreated.WithLabelValues("replayed").Inc()
			return existing, true, nil
		}
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if in.IdempotencyKey != "" {
			if relErr := s.idempotency.Release(ctx, caller.UserID, in.IdempotencyKey); relErr != nil {
				logger.Get().Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		return nil, false, fmt.Errorf("service: failed to create order: %w", err)
	}

	if in.IdempotencyKey != "" {
		if err := s.idempotency.Complete(ctx, caller.UserID, in.IdempotencyKey, created.ID); err != nil {
			logger.Get().Warn("Failed to bind idempotency key",
				zap.String("order_id", created.ID),
				zap.Error(err),
			)
		}
	}

	metrics.OrdersCreated.WithLabelValues("created").Inc()
	s.publish(ctx, domain.CreatedEvent(created))
	return created, false, nil
}

// claim reserves the idempotency key for this request. It returns the order an earlier
// request created with the same key, or nil when this request now owns the key.
// A key whose order has since been deleted is released and claimed again.
func (s *OrderServiceImpl) claim(ctx context.Context, userID, key string) (*domain.Order, error) {
	existingID, reserved, err := s.idempotency.Reserve(ctx, userID, key)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reserve idempotency key: %w", err)
	}
	if reserved {
		return nil, nil
	}
	if existingID == "" {
		return nil, domain.ErrSubmissionInProgress
	}

	existing, err := s.repo.GetByID(ctx, existingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, fmt.Errorf("service: failed to load replayed order: %w", err)
	}

	logger.Get().Info("Idempotency key points at a deleted order, starting over",
		zap.String("order_id", existingID),
	)
	if err := s.idempotency.Release(ctx, userID, key); err != nil {
		return nil, fmt.Errorf("service: failed to release idempotency key: %w", err)
	}
	if _, reserved, err = s.idempotency.Reserve(ctx, userID, key); err != nil {
		return nil, fmt.Errorf("service: failed to reserve idempotency key: %w", err)
	}
	if !reserved {
		return nil, domain.ErrSubmissionInProgress
	}
	return nil, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderServiceImpl) ListMine(ctx context.Context, caller auth.Principal) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list user orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (s *OrderServiceImpl) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns an order visible to the caller: its owner or an admin.
func (s *OrderServiceImpl) Get(ctx context.Context, caller auth.Principal, id string) (*domain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !order.OwnedBy(caller.UserID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// UpdateStatus applies an admin transition. Repeating the current status changes nothing.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	changed, err := order.Transition(target, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return order, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, previous, target, order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	metrics.StatusTransitions.WithLabelValues(string(previous), string(target)).Inc()
	s.publish(ctx, domain.StatusChangedEvent(order, previous))
	return order, nil
}

// Delete removes an order permanently.
func (s *OrderServiceImpl) Delete(ctx context.Context, id string) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	s.publish(ctx, domain.DeletedEvent(order, s.now()))
	return nil
}

// Export writes every order to w.
func (s *OrderServiceImpl) Export(ctx context.Context, w io.Writer) error {
	orders, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	if err := s.exporter.Export(w, orders); err != nil {
		return fmt.Errorf("service: failed to export orders: %w", err)
	}
	return nil
}

func (s *OrderServiceImpl) load(ctx context.Context, id string) (*domain.Order, error) {
	if domain.IsFallbackID(id) {
		return nil, domain.ErrFallbackOrderID
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get order: %w", err)
	}
	return order, nil
}

func (s *OrderServiceImpl) publish(ctx context.Context, event domain.OrderEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Get().Error("Failed to publish order event",
			zap.String("key", event.Key()),
			zap.Error(err),
		)
	}
}

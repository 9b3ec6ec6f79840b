package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"
	"storefront/internal/features/checkout/domain"
	"storefront/internal/features/checkout/ports"
	orders "storefront/internal/features/orders/domain"
	settings "storefront/internal/features/settings/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService submits carts as orders and reads the order history of one client.
type CheckoutService struct {
	gateway   ports.OrderGateway
	cart      ports.CartSource
	settings  ports.SettingsProvider
	tokens    ports.TokenSource
	fallbacks ports.FallbackStore
	ownerID   string
	now       func() time.Time
	newKey    func() string
}

// NewCheckoutService wires a checkout for ownerID, the client identity fallback orders are stored under.
func NewCheckoutService(
	gateway ports.OrderGateway,
	cart ports.CartSource,
	settingsProvider ports.SettingsProvider,
	tokens ports.TokenSource,
	fallbacks ports.FallbackStore,
	ownerID string,
) *CheckoutService {
	return &CheckoutService{
		gateway:   gateway,
		cart:      cart,
		settings:  settingsProvider,
		tokens:    tokens,
		fallbacks: fallbacks,
		ownerID:   ownerID,
		now:       func() time.Time { return time.Now().UTC() },
		newKey:    uuid.NewString,
	}
}

// Session is one visit to the checkout page. Store settings are read once when it starts.
type Session struct {
	svc   *CheckoutService
	store settings.Settings

	mu  sync.Mutex
	key string
}

// StartSession fetches the store settings for a new checkout.
func (s *CheckoutService) StartSession(ctx context.Context) (*Session, error) {
	store, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load store settings: %w", err)
	}
	return &Session{svc: s, store: store}, nil
}

// Settings returns the store settings the session was started with.
func (ss *Session) Settings() settings.Settings {
	return ss.store
}

// Validate checks the form against the current cart without submitting.
func (ss *Session) Validate(form domain.Form) error {
	return domain.Validate(ss.store, ss.svc.cart.Snapshot().ItemCount, form)
}

// Submit validates the form and places the order.
//
// On success the cart is cleared and an AuthoritativeOrder is returned. When the backend
// cannot be reached the order is kept locally, the cart is cleared and a FallbackOrder is
// returned without error. Every other failure leaves the cart untouched. Retrying Submit
// after a failure reuses the same idempotency key.
func (ss *Session) Submit(ctx context.Context, form domain.Form) (domain.Receipt, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.svc
	snap := s.cart.Snapshot()
	if err := domain.Validate(ss.store, snap.ItemCount, form); err != nil {
		metrics.CheckoutOutcomes.WithLabelValues("invalid").Inc()
		return nil, err
	}

	req := domain.NewOrderRequest(snap.Items, form)

	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		metrics.CheckoutOutcomes.WithLabelValues("unauthenticated").Inc()
		return nil, &domain.AuthError{Kind: domain.ErrAuthRequired, ReturnTo: domain.CheckoutPath}
	}

	if ss.key == "" {
		ss.key = s.newKey()
	}

	order, err := s.gateway.PlaceOrder(ctx, token, ss.key, req)
	if err == nil {
		ss.key = ""
		s.clearCart(ctx)
		metrics.CheckoutOutcomes.WithLabelValues("placed").Inc()
		return domain.AuthoritativeOrder{Order: *order}, nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return nil, err
	case errors.Is(err, domain.ErrAuthExpired):
		metrics.CheckoutOutcomes.WithLabelValues("unauthenticated").Inc()
		return nil, &domain.AuthError{Kind: domain.ErrAuthExpired, ReturnTo: domain.CheckoutPath}
	case errors.Is(err, domain.ErrAuthRequired):
		metrics.CheckoutOutcomes.WithLabelValues("unauthenticated").Inc()
		return nil, &domain.AuthError{Kind: domain.ErrAuthRequired, ReturnTo: domain.CheckoutPath}
	case errors.Is(err, domain.ErrServiceUnavailable):
		ss.key = ""
		return s.fallback(ctx, req, err), nil
	default:
		metrics.CheckoutOutcomes.WithLabelValues("rejected").Inc()
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, &domain.APIError{Kind: domain.ErrUnknown, Cause: err}
	}
}

func (s *CheckoutService) fallback(ctx context.Context, req domain.OrderRequest, cause error) domain.Receipt {
	order := domain.NewFallbackOrder(req, s.ownerID, s.now())

	log := logger.Named("checkout")
	log.Warn("Order endpoint unreachable, keeping order locally",
		zap.String("order_id", order.ID),
		zap.Error(cause),
	)

	if err := s.fallbacks.Save(ctx, s.ownerID, order); err != nil {
		log.Error("Failed to store fallback order", zap.String("order_id", order.ID), zap.Error(err))
	}
	s.clearCart(ctx)
	metrics.CheckoutOutcomes.WithLabelValues("fallback").Inc()

	return domain.FallbackOrder{Order: order, Cause: cause}
}

func (s *CheckoutService) clearCart(ctx context.Context) {
	if err := s.cart.Clear(ctx); err != nil {
		logger.Named("checkout").Warn("Failed to persist cleared cart", zap.Error(err))
	}
}

// HistoryEntry is one row of the order history. Local marks orders the server has never seen.
type HistoryEntry struct {
	Order orders.Order `json:"order"`
	Local bool         `json:"local"`
}

// History merges the server's orders with local fallback orders, newest first.
// When the server cannot be read the local orders are still returned alongside the error.
func (s *CheckoutService) History(ctx context.Context) ([]HistoryEntry, error) {
	local, err := s.fallbacks.List(ctx, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read fallback orders: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(local))
	for _, o := range local {
		entries = append(entries, HistoryEntry{Order: o, Local: true})
	}

	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		return entries, &domain.AuthError{Kind: domain.ErrAuthRequired, ReturnTo: "/orders"}
	}

	remote, err := s.gateway.ListMyOrders(ctx, token)
	if err != nil {
		return entries, fmt.Errorf("service: failed to list orders: %w", err)
	}
	for _, o := range remote {
		entries = append(entries, HistoryEntry{Order: o})
	}

	sortNewestFirst(entries)
	return entries, nil
}

// Get returns one order. Fallback ids are answered from the local store and never sent to the server.
func (s *CheckoutService) Get(ctx context.Context, id string) (HistoryEntry, error) {
	if orders.IsFallbackID(id) {
		o, err := s.fallbacks.Get(ctx, s.ownerID, id)
		if err != nil {
			return HistoryEntry{}, err
		}
		return HistoryEntry{Order: *o, Local: true}, nil
	}

	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		return HistoryEntry{}, &domain.AuthError{Kind: domain.ErrAuthRequired, ReturnTo: "/orders/" + id}
	}

	o, err := s.gateway.GetOrder(ctx, token, id)
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{Order: *o}, nil
}

func sortNewestFirst(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order.CreatedAt.After(entries[j].Order.CreatedAt)
	})
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// ShopExistence reports whether a shop id is known.
type ShopExistence interface {
	Get(ctx context.Context, id int64) (*domain.Shop, error)
}

// OrderRepo keeps orders in memory. Updates are compare-and-set on status.
type OrderRepo struct {
	shops ShopExistence

	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Order
}

// NewOrderRepo returns an empty repository. Orders must reference a shop known to shops.
func NewOrderRepo(shops ShopExistence) *OrderRepo {
	return &OrderRepo{shops: shops, rows: make(map[int64]domain.Order)}
}

// Create stores o and returns its id.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (int64, error) {
	if r.shops != nil {
		s, err := r.shops.Get(ctx, o.ShopID)
		if err != nil {
			return 0, err
		}
		if s == nil {
			return 0, fmt.Errorf("create order: shop %d: %w", o.ShopID, apperr.ErrNotFound)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	row := o.Clone()
	row.ID = r.nextID
	r.rows[row.ID] = row
	return row.ID, nil
}

// Get returns a copy of the order, or nil if it does not exist.
func (r *OrderRepo) Get(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := row.Clone()
	return &out, nil
}

// Update replaces the lifecycle fields if the stored row still matches
// ch.Before's status and courier.
func (r *OrderRepo) Update(_ context.Context, ch domain.Change) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[ch.After.ID]
	if !ok || row.Status != ch.Before.Status || !sameCourier(row.AssignedCourier, ch.Before.AssignedCourier) {
		return false, nil
	}
	next := ch.After.Clone()
	row.Status = next.Status
	row.AssignedCourier = next.AssignedCourier
	row.AssignedAt = next.AssignedAt
	row.PickedAt = next.PickedAt
	row.DeliveredAt = next.DeliveredAt
	row.ActualDeliveryTime = next.ActualDeliveryTime
	r.rows[row.ID] = row
	return true, nil
}

func sameCourier(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ListByShop returns the shop's orders, newest first.
func (r *OrderRepo) ListByShop(_ context.Context, shopID int64) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.ShopID == shopID }, true, 0), nil
}

// ListByCourier returns the courier's orders in the given statuses, newest first.
func (r *OrderRepo) ListByCourier(_ context.Context, courierID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool {
		if !o.AssignedTo(courierID) {
			return false
		}
		for _, s := range statuses {
			if o.Status == s {
				return true
			}
		}
		return false
	}, true, 0), nil
}

// ListPending returns up to limit pending orders, oldest first.
func (r *OrderRepo) ListPending(_ context.Context, limit int) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.Status == domain.OrderPending }, false, limit), nil
}

func (r *OrderRepo) filter(keep func(domain.Order) bool, newestFirst bool, limit int) []domain.Order {
	r.mu.RLock()
	var out []domain.Order
	for _, o := range r.rows {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt) != newestFirst
		}
		return (a.ID < b.ID) != newestFirst
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

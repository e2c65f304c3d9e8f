package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/domain"
)

// ShopRepo keeps shops in memory.
type ShopRepo struct {
	now func() time.Time

	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Shop
}

// NewShopRepo returns an empty repository.
func NewShopRepo() *ShopRepo {
	return &ShopRepo{now: time.Now, rows: make(map[int64]domain.Shop)}
}

// Create stores s and returns its id.
func (r *ShopRepo) Create(_ context.Context, s *domain.Shop) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	row := *s
	row.ID = r.nextID
	row.Location = clonePoint(s.Location)
	row.CreatedAt = r.now()
	r.rows[row.ID] = row
	return row.ID, nil
}

// Get returns the shop, or nil if it does not exist.
func (r *ShopRepo) Get(_ context.Context, id int64) (*domain.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	row.Location = clonePoint(row.Location)
	return &row, nil
}

// GetMany returns the known shops among ids.
func (r *ShopRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Shop, error) {
	out := make([]domain.Shop, 0, len(ids))
	for _, id := range ids {
		if s, _ := r.Get(ctx, id); s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ListLocated returns shops with a position, ordered by id.
func (r *ShopRepo) ListLocated(_ context.Context) ([]domain.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Shop
	for _, s := range r.rows {
		if s.Location != nil {
			s.Location = clonePoint(s.Location)
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateLocation sets the position.
func (r *ShopRepo) UpdateLocation(_ context.Context, id int64, p domain.Point) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	row.Location = &p
	r.rows[id] = row
	return true, nil
}

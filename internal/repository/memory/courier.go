package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// CourierRepo keeps couriers in memory. Mutations of one courier are
// serialized by its entry in the lock table.
type CourierRepo struct {
	now   func() time.Time
	locks *lockTable

	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*domain.Courier
	phones map[string]int64
}

// NewCourierRepo returns an empty repository.
func NewCourierRepo() *CourierRepo {
	return &CourierRepo{
		now:    time.Now,
		locks:  newLockTable(),
		rows:   make(map[int64]*domain.Courier),
		phones: make(map[string]int64),
	}
}

// Create stores c and returns its id.
func (r *CourierRepo) Create(_ context.Context, c *domain.Courier) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.phones[c.Phone]; dup {
		return 0, apperr.ErrConflict
	}
	r.nextID++
	row := *c
	row.ID = r.nextID
	row.Location = clonePoint(c.Location)
	row.CreatedAt = r.now()
	row.UpdatedAt = row.CreatedAt
	r.rows[row.ID] = &row
	r.phones[row.Phone] = row.ID
	return row.ID, nil
}

func (r *CourierRepo) row(id int64) *domain.Courier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rows[id]
}

// Get returns a copy of the courier, or nil if it does not exist.
func (r *CourierRepo) Get(_ context.Context, id int64) (*domain.Courier, error) {
	row := r.row(id)
	if row == nil {
		return nil, nil
	}
	unlock := r.locks.lock(id)
	defer unlock()
	c := copyCourier(row)
	return &c, nil
}

// GetMany returns copies of the known couriers among ids.
func (r *CourierRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Courier, error) {
	out := make([]domain.Courier, 0, len(ids))
	for _, id := range ids {
		c, _ := r.Get(ctx, id)
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ListLocated returns couriers that have a position, ordered by id.
func (r *CourierRepo) ListLocated(ctx context.Context) ([]domain.Courier, error) {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	all, _ := r.GetMany(ctx, ids)
	out := all[:0]
	for _, c := range all {
		if c.Location != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// mutate runs fn on the live row under its lock. It reports false for unknown ids.
func (r *CourierRepo) mutate(id int64, fn func(c *domain.Courier) bool) bool {
	row := r.row(id)
	if row == nil {
		return false
	}
	unlock := r.locks.lock(id)
	defer unlock()
	if fn(row) {
		row.UpdatedAt = r.now()
		return true
	}
	return false
}

// UpdateLocation overwrites the position.
func (r *CourierRepo) UpdateLocation(_ context.Context, id int64, p domain.Point) (bool, error) {
	return r.mutate(id, func(c *domain.Courier) bool {
		c.Location = &p
		return true
	}), nil
}

// SetActive flips the active flag and derives the status atomically.
func (r *CourierRepo) SetActive(_ context.Context, id int64, active bool) (*domain.Courier, error) {
	var out domain.Courier
	ok := r.mutate(id, func(c *domain.Courier) bool {
		c.Status = c.StatusAfterActivation(active)
		c.Active = active
		out = copyCourier(c)
		return true
	})
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// Reserve moves an active, available courier to busy.
func (r *CourierRepo) Reserve(_ context.Context, id int64) (bool, error) {
	return r.mutate(id, func(c *domain.Courier) bool {
		if !c.Reservable() {
			return false
		}
		c.Status = domain.CourierBusy
		return true
	}), nil
}

// Release moves a busy, active courier back to available.
func (r *CourierRepo) Release(_ context.Context, id int64) (released, found bool, err error) {
	if r.row(id) == nil {
		return false, false, nil
	}
	released = r.mutate(id, func(c *domain.Courier) bool {
		if !c.Active || c.Status != domain.CourierBusy {
			return false
		}
		c.Status = domain.CourierAvailable
		return true
	})
	return released, true, nil
}

func copyCourier(c *domain.Courier) domain.Courier {
	out := *c
	out.Location = clonePoint(c.Location)
	return out
}

func clonePoint(p *domain.Point) *domain.Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

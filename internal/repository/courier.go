package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

const courierColumns = `id, name, phone, lon, lat, active, status, created_at, updated_at`

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

func scanCourier(row pgx.Row) (domain.Courier, error) {
	var (
		c  domain.Courier
		np nullPoint
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &np.lon, &np.lat, &c.Active, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Courier{}, err
	}
	c.Location = np.point()
	return c, nil
}

// Create - creates a new courier.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	lon, lat := pointArgs(c.Location)
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO couriers(name, phone, lon, lat, active, status) VALUES($1,$2,$3,$4,$5,$6) RETURNING id`,
		c.Name, c.Phone, lon, lat, c.Active, c.Status).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create courier: %w", err)
	}
	return id, nil
}

// Get - returns courier by its ID, or nil if it does not exist.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx, `SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return &c, nil
}

// GetMany returns the couriers with the given ids in no particular order.
func (r *CourierRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Courier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+courierColumns+` FROM couriers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get couriers: %w", err)
	}
	return collect(rows, scanCourier)
}

// ListLocated returns every courier that has reported a position.
func (r *CourierRepo) ListLocated(ctx context.Context) ([]domain.Courier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE lon IS NOT NULL AND lat IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list located couriers: %w", err)
	}
	return collect(rows, scanCourier)
}

// UpdateLocation overwrites the courier position and reports whether the courier exists.
func (r *CourierRepo) UpdateLocation(ctx context.Context, id int64, p domain.Point) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE couriers SET lon=$2, lat=$3, updated_at=now() WHERE id=$1`, id, p.Lon, p.Lat)
	if err != nil {
		return false, fmt.Errorf("update courier %d location: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetActive flips the active flag and derives the status in the same statement.
// Returns nil if the courier does not exist.
func (r *CourierRepo) SetActive(ctx context.Context, id int64, active bool) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx, `
        UPDATE couriers
        SET active = $2,
            status = CASE
                WHEN NOT $2::boolean THEN 'offline'
                WHEN status = 'busy' THEN 'busy'
                ELSE 'available'
            END,
            updated_at = now()
        WHERE id = $1
        RETURNING `+courierColumns, id, active))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("set courier %d active=%t: %w", id, active, err)
	}
	return &c, nil
}

// Reserve moves an active, available courier to busy. It reports false when
// the row did not match, which includes a concurrent reservation.
func (r *CourierRepo) Reserve(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET status = 'busy', updated_at = now()
        WHERE id = $1 AND active AND status = 'available'
    `, id)
	if err != nil {
		return false, fmt.Errorf("reserve courier %d: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// Release moves a busy, active courier back to available. Couriers in any other
// state are left as they are. found is false only for an unknown id.
func (r *CourierRepo) Release(ctx context.Context, id int64) (released, found bool, err error) {
	err = r.db.QueryRow(ctx, `
        WITH rel AS (
            UPDATE couriers
            SET status = 'available', updated_at = now()
            WHERE id = $1 AND active AND status = 'busy'
            RETURNING id
        )
        SELECT EXISTS (SELECT 1 FROM rel), EXISTS (SELECT 1 FROM couriers WHERE id = $1)
    `, id).Scan(&released, &found)
	if err != nil {
		return false, false, fmt.Errorf("release courier %d: %w", id, err)
	}
	return released, found, nil
}

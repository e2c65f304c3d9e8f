package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/domain"
)

const shopColumns = `id, name, address, lon, lat, created_at`

// ShopRepo represents shop repository.
type ShopRepo struct{ db *pgxpool.Pool }

// NewShopRepo creates a new ShopRepo.
func NewShopRepo(db *pgxpool.Pool) *ShopRepo { return &ShopRepo{db: db} }

func scanShop(row pgx.Row) (domain.Shop, error) {
	var (
		s  domain.Shop
		np nullPoint
	)
	if err := row.Scan(&s.ID, &s.Name, &s.AddressText, &np.lon, &np.lat, &s.CreatedAt); err != nil {
		return domain.Shop{}, err
	}
	s.Location = np.point()
	return s, nil
}

// Create - creates a new shop.
func (r *ShopRepo) Create(ctx context.Context, s *domain.Shop) (int64, error) {
	lon, lat := pointArgs(s.Location)
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO shops(name, address, lon, lat) VALUES($1,$2,$3,$4) RETURNING id`,
		s.Name, s.AddressText, lon, lat).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create shop: %w", err)
	}
	return id, nil
}

// Get - returns shop by its ID, or nil if it does not exist.
func (r *ShopRepo) Get(ctx context.Context, id int64) (*domain.Shop, error) {
	s, err := scanShop(r.db.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop %d: %w", id, err)
	}
	return &s, nil
}

// GetMany returns the shops with the given ids in no particular order.
func (r *ShopRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get shops: %w", err)
	}
	return collect(rows, scanShop)
}

// ListLocated returns every shop with a position.
func (r *ShopRepo) ListLocated(ctx context.Context) ([]domain.Shop, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE lon IS NOT NULL AND lat IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list located shops: %w", err)
	}
	return collect(rows, scanShop)
}

// UpdateLocation sets the shop position and reports whether the shop exists.
func (r *ShopRepo) UpdateLocation(ctx context.Context, id int64, p domain.Point) (bool, error) {
	ct, err := r.db.Exec(ctx, `UPDATE shops SET lon=$2, lat=$3 WHERE id=$1`, id, p.Lon, p.Lat)
	if err != nil {
		return false, fmt.Errorf("update shop %d location: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

const orderColumns = `id, shop_id, assigned_courier, customer_name, customer_phone,
    delivery_address, delivery_district, delivery_lon, delivery_lat, package_details,
    priority, status, created_at, assigned_at, picked_at, delivered_at, actual_delivery_time`

// OrderRepo represents order repository.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o  domain.Order
		np nullPoint
	)
	err := row.Scan(
		&o.ID, &o.ShopID, &o.AssignedCourier, &o.CustomerName, &o.CustomerPhone,
		&o.DeliveryAddress, &o.DeliveryDistrict, &np.lon, &np.lat, &o.PackageDetails,
		&o.Priority, &o.Status, &o.CreatedAt, &o.AssignedAt, &o.PickedAt, &o.DeliveredAt, &o.ActualDeliveryTime,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.DeliveryLocation = np.point()
	return o, nil
}

// Create - inserts a new order.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (int64, error) {
	lon, lat := pointArgs(o.DeliveryLocation)
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO orders (shop_id, assigned_courier, customer_name, customer_phone,
            delivery_address, delivery_district, delivery_lon, delivery_lat, package_details,
            priority, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id
    `, o.ShopID, o.AssignedCourier, o.CustomerName, o.CustomerPhone,
		o.DeliveryAddress, o.DeliveryDistrict, lon, lat, o.PackageDetails,
		o.Priority, o.Status, o.CreatedAt).Scan(&id)
	if err != nil {
		if IsForeignKey(err) {
			return 0, fmt.Errorf("create order: shop %d: %w", o.ShopID, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

// Get - returns order by its ID, or nil if it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

// Update writes ch.After if the stored row still matches ch.Before's status and
// courier. It reports whether the row was written.
func (r *OrderRepo) Update(ctx context.Context, ch domain.Change) (bool, error) {
	o := ch.After
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $4,
            assigned_courier = $5,
            assigned_at = $6,
            picked_at = $7,
            delivered_at = $8,
            actual_delivery_time = $9,
            updated_at = now()
        WHERE id = $1 AND status = $2 AND assigned_courier IS NOT DISTINCT FROM $3
    `, o.ID, ch.Before.Status, ch.Before.AssignedCourier,
		o.Status, o.AssignedCourier, o.AssignedAt, o.PickedAt, o.DeliveredAt, o.ActualDeliveryTime)
	if err != nil {
		return false, fmt.Errorf("update order %d: %w", o.ID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// ListByShop returns the shop's orders, newest first.
func (r *OrderRepo) ListByShop(ctx context.Context, shopID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE shop_id=$1 ORDER BY created_at DESC, id DESC`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list orders of shop %d: %w", shopID, err)
	}
	return collect(rows, scanOrder)
}

// ListByCourier returns the courier's orders in the given statuses, newest first.
func (r *OrderRepo) ListByCourier(ctx context.Context, courierID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	st := make([]string, len(statuses))
	for i, s := range statuses {
		st[i] = string(s)
	}
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE assigned_courier = $1 AND status = ANY($2)
        ORDER BY created_at DESC, id DESC
    `, courierID, st)
	if err != nil {
		return nil, fmt.Errorf("list orders of courier %d: %w", courierID, err)
	}
	return collect(rows, scanOrder)
}

// ListPending returns up to limit pending orders, oldest first.
func (r *OrderRepo) ListPending(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE status = 'pending'
        ORDER BY created_at, id
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return collect(rows, scanOrder)
}

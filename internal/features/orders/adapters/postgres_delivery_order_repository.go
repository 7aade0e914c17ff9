package adapter

import (
	"context"
	"database/sql"
	"fmt"

	"shipment-planner/internal/features/orders/domain"
)

// PostgresDeliveryOrderRepository implements ports.DeliveryOrderRepository on Postgres.
type PostgresDeliveryOrderRepository struct {
	db *sql.DB
}

// NewPostgresDeliveryOrderRepository creates a new PostgresDeliveryOrderRepository.
func NewPostgresDeliveryOrderRepository(db *sql.DB) *PostgresDeliveryOrderRepository {
	return &PostgresDeliveryOrderRepository{db: db}
}

// ListByIDs fetches undeleted orders and attaches their product lines.
func (r *PostgresDeliveryOrderRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.DeliveryOrder, error) {
	if len(ids) == 0 {
		return []domain.DeliveryOrder{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, num, description, origin_location_id, dest_location_id, status, order_date, is_deleted
	FROM delivery_orders
	WHERE id = ANY($1::bigint[]) AND is_deleted = FALSE
	ORDER BY id;
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list delivery orders: query: %w", err)
	}
	defer rows.Close()

	orders := []domain.DeliveryOrder{}
	index := map[int64]int{}
	for rows.Next() {
		var o domain.DeliveryOrder
		if err := rows.Scan(&o.ID, &o.Num, &o.Description, &o.OriginLocationID, &o.DestLocationID,
			&o.Status, &o.OrderDate, &o.IsDeleted); err != nil {
			return nil, fmt.Errorf("list delivery orders: scan: %w", err)
		}
		o.ProductLines = []domain.ProductLine{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delivery orders: rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := r.db.QueryContext(ctx, `
	SELECT id, delivery_order_id, product_name, volume, quantity
	FROM product_lines
	WHERE delivery_order_id = ANY($1::bigint[])
	ORDER BY delivery_order_id, id;
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list delivery orders: query product lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var (
			p    domain.ProductLine
			doID int64
		)
		if err := lines.Scan(&p.ID, &doID, &p.ProductName, &p.Volume, &p.Quantity); err != nil {
			return nil, fmt.Errorf("list delivery orders: scan product line: %w", err)
		}
		if i, ok := index[doID]; ok {
			orders[i].ProductLines = append(orders[i].ProductLines, p)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("list delivery orders: product line rows: %w", err)
	}

	return orders, nil
}

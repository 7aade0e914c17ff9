package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/database"
	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"
	"shipment-planner/internal/features/shipments/domain"

	"golang.org/x/sync/errgroup"
)

// PostgresShipmentRepository implements ports.ShipmentRepository on Postgres.
type PostgresShipmentRepository struct {
	db *sql.DB
}

// NewPostgresShipmentRepository creates a new PostgresShipmentRepository.
func NewPostgresShipmentRepository(db *sql.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

// Create persists a draft. The shipment number comes from shipment_num_seq
// inside the same transaction, so numbers never repeat under concurrent runs.
func (r *PostgresShipmentRepository) Create(ctx context.Context, draft domain.Draft) (*domain.Shipment, error) {
	if err := draft.Validate(); err != nil {
		return nil, apperror.Validation("create shipment: %v", err)
	}

	createdBy := draft.CreatedBy
	if createdBy == "" {
		createdBy = domain.DefaultCreator
	}
	coords := draft.AllCoords
	if coords == "" {
		coords = "[]"
	}

	var s domain.Shipment
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := reserveTruck(ctx, tx, draft.TruckID); err != nil {
			return err
		}
		if err := lockOrders(ctx, tx, draft.DeliveryOrderIDs); err != nil {
			return err
		}

		truckID := draft.TruckID
		s = domain.Shipment{
			Status:               domain.StatusDraft,
			TotalDist:            draft.TotalDist,
			TotalTime:            draft.TotalTime,
			TotalTimeWithWaiting: draft.TotalTimeWithWaiting,
			Cost:                 draft.Cost,
			TotalVolume:          draft.TotalVolume,
			AllCoords:            coords,
			TruckID:              &truckID,
			CreatedBy:            createdBy,
		}

		err := tx.QueryRowContext(ctx, `
		INSERT INTO shipments (
			shipment_num, status, is_saved,
			total_dist, total_dist_unit, total_time, total_time_unit,
			total_time_with_waiting, total_time_with_waiting_unit,
			shipment_cost, total_volume, all_coords, truck_id, created_by
		)
		VALUES (
			'SP-' || lpad(nextval('shipment_num_seq')::text, 4, '0'), $1, FALSE,
			$2, $3, $4, $5, $6, $5, $7, $8, $9, $10, $11
		)
		RETURNING id, shipment_num, created_at;
		`,
			string(domain.StatusDraft),
			draft.TotalDist, domain.DistanceUnit, draft.TotalTime, domain.TimeUnit,
			draft.TotalTimeWithWaiting, draft.Cost, draft.TotalVolume, coords, draft.TruckID, createdBy,
		).Scan(&s.ID, &s.Num, &s.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert shipment: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, leg := range draft.Legs {
			g.Go(func() error {
				_, err := tx.ExecContext(gctx, `
				INSERT INTO shipment_locations (
					shipment_id, location_id, queue,
					travel_time, travel_time_unit, travel_distance, travel_distance_unit
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7);
				`, s.ID, leg.LocationID, leg.Queue, leg.TravelTime, domain.TimeUnit, leg.TravelDistance, domain.DistanceUnit)
				if err != nil {
					return fmt.Errorf("insert leg queue %d: %w", leg.Queue, err)
				}
				return nil
			})
		}
		for queue, doID := range draft.DeliveryOrderIDs {
			g.Go(func() error {
				return linkOrder(gctx, tx, s.ID, doID, queue)
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	return &s, nil
}

func reserveTruck(ctx context.Context, tx *sql.Tx, truckID int64) error {
	res, err := tx.ExecContext(ctx, `
	UPDATE trucks SET first_status = $2, updated_at = now()
	WHERE id = $1 AND first_status = $3;
	`, truckID, string(fleet.TruckUnavailable), string(fleet.TruckAvailable))
	if err != nil {
		return fmt.Errorf("reserve truck %d: %w", truckID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve truck %d: rows affected: %w", truckID, err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trucks WHERE id = $1)`, truckID).Scan(&exists); err != nil {
		return fmt.Errorf("reserve truck %d: %w", truckID, err)
	}
	if !exists {
		return apperror.NotFound("truck %d", truckID)
	}
	return apperror.Conflict("truck %d is not available", truckID)
}

// lockOrders row-locks the orders in id order before any link is written.
// Each link statement then reads a snapshot taken after the lock, so it sees
// links committed by a concurrent run that held the same orders first.
func lockOrders(ctx context.Context, tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
	SELECT id FROM delivery_orders
	WHERE id = ANY($1::bigint[])
	ORDER BY id
	FOR UPDATE;
	`, ids)
	if err != nil {
		return fmt.Errorf("lock delivery orders: %w", err)
	}
	return nil
}

// linkOrder only issues Exec statements: database/sql holds the tx connection
// for the whole of each Exec, so concurrent calls on one tx are serialized.
func linkOrder(ctx context.Context, tx *sql.Tx, shipmentID, doID int64, queue int) error {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO shipment_delivery_orders (shipment_id, delivery_order_id, queue)
	SELECT $1::bigint, $2::bigint, $3::integer
	WHERE NOT EXISTS (
		SELECT 1
		FROM shipment_delivery_orders sdo
		JOIN shipments s ON s.id = sdo.shipment_id
		WHERE sdo.delivery_order_id = $2
			AND sdo.shipment_id <> $1
			AND s.is_deleted = FALSE
			AND s.status <> $4
	);
	`, shipmentID, doID, queue, string(domain.StatusDone))
	if err != nil {
		return fmt.Errorf("link delivery order %d: %w", doID, err)
	}
	if err := expectOne(res, "delivery order %d already belongs to an active shipment", doID); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx, `
	UPDATE delivery_orders SET status = $2
	WHERE id = $1 AND is_deleted = FALSE AND status = ANY($3::text[]);
	`, doID, string(orders.StatusInCalculation), []string{string(orders.StatusReady), string(orders.StatusInCalculation)})
	if err != nil {
		return fmt.Errorf("advance delivery order %d: %w", doID, err)
	}
	return expectOne(res, "delivery order %d cannot move to %s", doID, orders.StatusInCalculation)
}

// expectOne turns a statement that touched no row into a Conflict.
func expectOne(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperror.Conflict(format, args...)
	}
	return nil
}

// GetRecord loads an undeleted shipment with legs sorted by queue and orders sorted by link queue.
func (r *PostgresShipmentRepository) GetRecord(ctx context.Context, id int64) (*domain.Record, error) {
	var (
		rec     domain.Record
		truckID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
	SELECT id, shipment_num, status, is_saved, total_dist, total_time, total_time_with_waiting,
		shipment_cost, total_volume, all_coords, truck_id, created_at, created_by
	FROM shipments
	WHERE id = $1 AND is_deleted = FALSE;
	`, id).Scan(&rec.Shipment.ID, &rec.Shipment.Num, &rec.Shipment.Status, &rec.Shipment.IsSaved,
		&rec.Shipment.TotalDist, &rec.Shipment.TotalTime, &rec.Shipment.TotalTimeWithWaiting,
		&rec.Shipment.Cost, &rec.Shipment.TotalVolume, &rec.Shipment.AllCoords, &truckID,
		&rec.Shipment.CreatedAt, &rec.Shipment.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("shipment %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment %d: %w", id, err)
	}
	if truckID.Valid {
		rec.Shipment.TruckID = &truckID.Int64
	}

	if rec.Legs, err = r.legs(ctx, id); err != nil {
		return nil, err
	}
	if rec.Orders, err = r.linkedOrders(ctx, id); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *PostgresShipmentRepository) legs(ctx context.Context, shipmentID int64) ([]domain.StoredLeg, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT sl.location_id, sl.queue, sl.travel_time, sl.travel_distance,
		l.id, l.name, l.address, l.latitude, l.longitude, l.province, l.city, l.district,
		l.postal_code, l.is_dc, l.dc_id, l.customer_id, l.open_hour, l.close_hour, l.service_time
	FROM shipment_locations sl
	JOIN locations l ON l.id = sl.location_id
	WHERE sl.shipment_id = $1
	ORDER BY sl.queue;
	`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("get legs of shipment %d: %w", shipmentID, err)
	}
	defer rows.Close()

	legs := []domain.StoredLeg{}
	for rows.Next() {
		var (
			leg        domain.StoredLeg
			l          = &leg.Location
			dcID       sql.NullInt64
			customerID sql.NullInt64
		)
		if err := rows.Scan(&leg.LocationID, &leg.Queue, &leg.TravelTime, &leg.TravelDistance,
			&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.Province, &l.City, &l.District,
			&l.PostalCode, &l.IsDC, &dcID, &customerID, &l.OpenHour, &l.CloseHour, &l.ServiceTime); err != nil {
			return nil, fmt.Errorf("scan leg of shipment %d: %w", shipmentID, err)
		}
		if dcID.Valid {
			l.DCID = &dcID.Int64
		}
		if customerID.Valid {
			l.CustomerID = &customerID.Int64
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get legs of shipment %d: rows: %w", shipmentID, err)
	}
	return legs, nil
}

func (r *PostgresShipmentRepository) linkedOrders(ctx context.Context, shipmentID int64) ([]domain.LinkedOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT sdo.queue, d.id, d.num, d.description, d.origin_location_id, d.dest_location_id,
		d.status, d.order_date, d.is_deleted
	FROM shipment_delivery_orders sdo
	JOIN delivery_orders d ON d.id = sdo.delivery_order_id
	WHERE sdo.shipment_id = $1
	ORDER BY sdo.queue, d.id;
	`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("get orders of shipment %d: %w", shipmentID, err)
	}
	defer rows.Close()

	links := []domain.LinkedOrder{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var lo domain.LinkedOrder
		o := &lo.Order
		if err := rows.Scan(&lo.Queue, &o.ID, &o.Num, &o.Description, &o.OriginLocationID,
			&o.DestLocationID, &o.Status, &o.OrderDate, &o.IsDeleted); err != nil {
			return nil, fmt.Errorf("scan order of shipment %d: %w", shipmentID, err)
		}
		o.ProductLines = []orders.ProductLine{}
		o.Boxes = []orders.Box{}
		index[o.ID] = len(links)
		ids = append(ids, o.ID)
		links = append(links, lo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get orders of shipment %d: rows: %w", shipmentID, err)
	}
	if len(ids) == 0 {
		return links, nil
	}

	lines, err := r.db.QueryContext(ctx, `
	SELECT delivery_order_id, id, product_name, volume, quantity
	FROM product_lines
	WHERE delivery_order_id = ANY($1::bigint[])
	ORDER BY delivery_order_id, id;
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get product lines of shipment %d: %w", shipmentID, err)
	}
	defer lines.Close()
	for lines.Next() {
		var (
			doID int64
			p    orders.ProductLine
		)
		if err := lines.Scan(&doID, &p.ID, &p.ProductName, &p.Volume, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product line of shipment %d: %w", shipmentID, err)
		}
		o := &links[index[doID]].Order
		o.ProductLines = append(o.ProductLines, p)
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("get product lines of shipment %d: rows: %w", shipmentID, err)
	}

	boxes, err := r.db.QueryContext(ctx, `
	SELECT bdo.delivery_order_id, b.id, b.name, b.length, b.width, b.height, b.status, bdo.quantity
	FROM box_delivery_orders bdo
	JOIN boxes b ON b.id = bdo.box_id
	WHERE bdo.delivery_order_id = ANY($1::bigint[])
	ORDER BY bdo.delivery_order_id, b.id;
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get boxes of shipment %d: %w", shipmentID, err)
	}
	defer boxes.Close()
	for boxes.Next() {
		var (
			doID int64
			b    orders.Box
		)
		if err := boxes.Scan(&doID, &b.ID, &b.Name, &b.Length, &b.Width, &b.Height, &b.Status, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan box of shipment %d: %w", shipmentID, err)
		}
		o := &links[index[doID]].Order
		o.Boxes = append(o.Boxes, b)
	}
	if err := boxes.Err(); err != nil {
		return nil, fmt.Errorf("get boxes of shipment %d: rows: %w", shipmentID, err)
	}

	return links, nil
}

// Save moves a shipment to RUNNING, marks it saved and cascades RUNNING to
// every linked order not yet delivered. Saving a RUNNING shipment again changes nothing.
func (r *PostgresShipmentRepository) Save(ctx context.Context, num string) (*domain.Shipment, error) {
	var s domain.Shipment
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var truckID sql.NullInt64
		err := tx.QueryRowContext(ctx, `
		SELECT id, shipment_num, status, is_saved, total_dist, total_time, total_time_with_waiting,
			shipment_cost, total_volume, all_coords, truck_id, created_at, created_by
		FROM shipments
		WHERE shipment_num = $1 AND is_deleted = FALSE
		FOR UPDATE;
		`, num).Scan(&s.ID, &s.Num, &s.Status, &s.IsSaved, &s.TotalDist, &s.TotalTime,
			&s.TotalTimeWithWaiting, &s.Cost, &s.TotalVolume, &s.AllCoords, &truckID, &s.CreatedAt, &s.CreatedBy)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("shipment %s", num)
		}
		if err != nil {
			return fmt.Errorf("lock shipment %s: %w", num, err)
		}
		if truckID.Valid {
			s.TruckID = &truckID.Int64
		}

		if !domain.CanTransition(s.Status, domain.StatusRunning) {
			return apperror.Conflict("shipment %s cannot move from %s to %s", num, s.Status, domain.StatusRunning)
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE shipments SET status = $2, is_saved = TRUE WHERE id = $1;
		`, s.ID, string(domain.StatusRunning)); err != nil {
			return fmt.Errorf("update shipment %s: %w", num, err)
		}
		s.Status = domain.StatusRunning
		s.IsSaved = true

		rows, err := tx.QueryContext(ctx, `
		SELECT d.id, d.status
		FROM delivery_orders d
		JOIN shipment_delivery_orders sdo ON sdo.delivery_order_id = d.id
		WHERE sdo.shipment_id = $1
		ORDER BY d.id
		FOR UPDATE OF d;
		`, s.ID)
		if err != nil {
			return fmt.Errorf("lock orders of shipment %s: %w", num, err)
		}
		var ids []int64
		var illegal error
		for rows.Next() {
			var (
				id     int64
				status orders.Status
			)
			if err := rows.Scan(&id, &status); err != nil {
				rows.Close()
				return fmt.Errorf("scan order of shipment %s: %w", num, err)
			}
			if status == orders.StatusDone {
				continue
			}
			if !orders.CanTransition(status, orders.StatusRunning) && illegal == nil {
				illegal = apperror.Conflict("delivery order %d cannot move from %s to %s", id, status, orders.StatusRunning)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("lock orders of shipment %s: rows: %w", num, err)
		}
		rows.Close()
		if illegal != nil {
			return illegal
		}
		if len(ids) == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE delivery_orders SET status = $2 WHERE id = ANY($1::bigint[]);
		`, ids, string(orders.StatusRunning)); err != nil {
			return fmt.Errorf("advance orders of shipment %s: %w", num, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save shipment: %w", err)
	}
	return &s, nil
}

// ReassignTruck swaps the shipment's truck for an AVAILABLE truck of the
// target type. The previous truck is released in the same transaction.
func (r *PostgresShipmentRepository) ReassignTruck(ctx context.Context, shipmentID, truckTypeID int64) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var current sql.NullInt64
		err := tx.QueryRowContext(ctx, `
		SELECT truck_id FROM shipments WHERE id = $1 AND is_deleted = FALSE FOR UPDATE;
		`, shipmentID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("shipment %d", shipmentID)
		}
		if err != nil {
			return fmt.Errorf("lock shipment %d: %w", shipmentID, err)
		}

		var next int64
		err = tx.QueryRowContext(ctx, `
		SELECT id FROM trucks
		WHERE type_id = $1 AND first_status = $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED;
		`, truckTypeID, string(fleet.TruckAvailable)).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.Conflict("no available truck of type %d", truckTypeID)
		}
		if err != nil {
			return fmt.Errorf("pick truck of type %d: %w", truckTypeID, err)
		}

		if current.Valid {
			if _, err := tx.ExecContext(ctx, `
			UPDATE trucks SET first_status = $2, updated_at = now() WHERE id = $1;
			`, current.Int64, string(fleet.TruckAvailable)); err != nil {
				return fmt.Errorf("release truck %d: %w", current.Int64, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE shipments SET truck_id = $2 WHERE id = $1;
		`, shipmentID, next); err != nil {
			return fmt.Errorf("rebind shipment %d: %w", shipmentID, err)
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE trucks SET first_status = $2, updated_at = now() WHERE id = $1;
		`, next, string(fleet.TruckUnavailable)); err != nil {
			return fmt.Errorf("reserve truck %d: %w", next, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reassign truck: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cateringops/catermail/pkg/catermail/internalerr"
	"github.com/cateringops/catermail/pkg/catermail/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and the schema
// initialized.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY,
	order_type TEXT NOT NULL,
	order_date TEXT NOT NULL,
	order_time TEXT,
	destination TEXT,
	customer_name TEXT,
	phone TEXT,
	email TEXT,
	guest_count TEXT,
	paper_goods TEXT,
	special_instructions TEXT,
	total TEXT NOT NULL,
	paid INTEGER NOT NULL DEFAULT 0,
	completed_kitchen INTEGER NOT NULL DEFAULT 0,
	completed_service INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_dedup ON orders(email, order_date, total);

CREATE TABLE IF NOT EXISTS order_items (
	order_id INTEGER NOT NULL,
	bucket TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	qty INTEGER NOT NULL,
	PRIMARY KEY(order_id, bucket, position),
	FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	messages INTEGER NOT NULL,
	saved INTEGER NOT NULL,
	duplicates INTEGER NOT NULL,
	errors INTEGER NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const bucketFood, bucketDrink, bucketSauce, bucketMealBox = "food", "drink", "sauce", "mealbox"

// CreateOrder inserts an order with the next sequential id.
func (s *sqliteStore) CreateOrder(ctx context.Context, o store.Order) (store.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Order{}, err
	}
	defer tx.Rollback()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	const stmt = `
INSERT INTO orders (
	id, order_type, order_date, order_time, destination,
	customer_name, phone, email, guest_count, paper_goods,
	special_instructions, total, paid, completed_kitchen, completed_service,
	created_at
)
VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM orders), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id;
`

	err = tx.QueryRowContext(
		ctx,
		stmt,
		o.OrderType,
		o.Date,
		o.Time,
		o.Destination,
		o.CustomerName,
		o.Phone,
		o.Email,
		o.GuestCount,
		o.PaperGoods,
		o.SpecialInstructions,
		o.Total,
		o.Paid,
		o.CompletedKitchen,
		o.CompletedService,
		o.CreatedAt.UTC().Format(time.RFC3339),
	).Scan(&o.ID)
	if err != nil {
		return store.Order{}, err
	}

	buckets := []struct {
		name  string
		items []store.Item
	}{
		{bucketFood, o.FoodItems},
		{bucketDrink, o.DrinkItems},
		{bucketSauce, o.SauceItems},
		{bucketMealBox, o.MealBoxes},
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO order_items (order_id, bucket, position, name, qty) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return store.Order{}, err
	}
	defer itemStmt.Close()

	for _, b := range buckets {
		for pos, item := range b.items {
			if item.Name == "" {
				continue
			}
			if _, err := itemStmt.ExecContext(ctx, o.ID, b.name, pos, item.Name, item.Qty); err != nil {
				return store.Order{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Order{}, err
	}
	return o, nil
}

// GetOrder retrieves an order by id.
func (s *sqliteStore) GetOrder(ctx context.Context, id int64) (store.Order, bool, error) {
	o, err := s.loadOrder(ctx, id)
	if err == sql.ErrNoRows {
		return store.Order{}, false, nil
	}
	if err != nil {
		return store.Order{}, false, err
	}
	return o, true, nil
}

// GetOrders returns all orders ordered by id.
func (s *sqliteStore) GetOrders(ctx context.Context) ([]store.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]store.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.loadOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// FindDuplicate looks up an order by the (email, date, total) dedup key.
func (s *sqliteStore) FindDuplicate(ctx context.Context, email, date, total string) (store.Order, bool, error) {
	var id int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id FROM orders WHERE email = ? AND order_date = ? AND total = ? LIMIT 1`,
		email, date, total,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return store.Order{}, false, nil
	}
	if err != nil {
		return store.Order{}, false, err
	}

	o, err := s.loadOrder(ctx, id)
	if err != nil {
		return store.Order{}, false, err
	}
	return o, true, nil
}

// SetPaid updates the paid workflow flag.
func (s *sqliteStore) SetPaid(ctx context.Context, id int64, paid bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetCompleted updates the kitchen/service completion flags.
func (s *sqliteStore) SetCompleted(ctx context.Context, id int64, kitchen, service bool) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE orders SET completed_kitchen = ?, completed_service = ? WHERE id = ?`,
		kitchen, service, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RecordRun persists an ingestion run record.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO ingest_runs (id, started_at, finished_at, messages, saved, duplicates, errors)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Messages,
		r.Saved,
		r.Duplicates,
		r.Errors,
	)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *sqliteStore) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, messages, saved, duplicates, errors
FROM ingest_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Messages, &r.Saved, &r.Duplicates, &r.Errors); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *sqliteStore) loadOrder(ctx context.Context, id int64) (store.Order, error) {
	var o store.Order
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
SELECT id, order_type, order_date, order_time, destination,
	customer_name, phone, email, guest_count, paper_goods,
	special_instructions, total, paid, completed_kitchen, completed_service,
	created_at
FROM orders WHERE id = ?`, id).Scan(
		&o.ID,
		&o.OrderType,
		&o.Date,
		&o.Time,
		&o.Destination,
		&o.CustomerName,
		&o.Phone,
		&o.Email,
		&o.GuestCount,
		&o.PaperGoods,
		&o.SpecialInstructions,
		&o.Total,
		&o.Paid,
		&o.CompletedKitchen,
		&o.CompletedService,
		&createdAt,
	)
	if err != nil {
		return store.Order{}, err
	}
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT bucket, name, qty FROM order_items WHERE order_id = ? ORDER BY bucket, position`,
		id,
	)
	if err != nil {
		return store.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var bucket string
		var item store.Item
		if err := rows.Scan(&bucket, &item.Name, &item.Qty); err != nil {
			return store.Order{}, err
		}
		switch bucket {
		case bucketFood:
			o.FoodItems = append(o.FoodItems, item)
		case bucketDrink:
			o.DrinkItems = append(o.DrinkItems, item)
		case bucketSauce:
			o.SauceItems = append(o.SauceItems, item)
		case bucketMealBox:
			o.MealBoxes = append(o.MealBoxes, item)
		}
	}
	return o, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}

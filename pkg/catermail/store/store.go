package store

import (
	"context"
	"time"
)

// Store persists parsed catering orders and ingestion-run bookkeeping.
type Store interface {
	Close() error

	// Orders
	CreateOrder(ctx context.Context, o Order) (Order, error)
	GetOrder(ctx context.Context, id int64) (Order, bool, error)
	GetOrders(ctx context.Context) ([]Order, error)
	FindDuplicate(ctx context.Context, email, date, total string) (Order, bool, error)

	// Workflow flags mutated by kitchen/service staff after intake
	SetPaid(ctx context.Context, id int64, paid bool) error
	SetCompleted(ctx context.Context, id int64, kitchen, service bool) error

	// Ingestion runs
	RecordRun(ctx context.Context, r Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// Order is a persisted catering order. IDs are sequential and assigned by
// the store on creation; everything else is immutable once stored except the
// workflow flags.
type Order struct {
	ID                  int64
	OrderType           string
	Date                string
	Time                string
	Destination         string
	CustomerName        string
	Phone               string
	Email               string
	GuestCount          string
	PaperGoods          string
	SpecialInstructions string
	FoodItems           []Item
	DrinkItems          []Item
	SauceItems          []Item
	MealBoxes           []Item
	Total               string
	Paid                bool
	CompletedKitchen    bool
	CompletedService    bool
	CreatedAt           time.Time
}

// Item is one stored order line.
type Item struct {
	Name string
	Qty  int
}

// Run records one ingestion batch: what was seen and what survived the
// dedup gate.
type Run struct {
	ID         string // ULID
	StartedAt  time.Time
	FinishedAt time.Time
	Messages   int
	Saved      int
	Duplicates int
	Errors     int
}

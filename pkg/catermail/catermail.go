package catermail

import (
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cateringops/catermail/internal/mailbox"
	"github.com/cateringops/catermail/pkg/catermail/parse"
	"github.com/cateringops/catermail/pkg/catermail/store"
)

// DefaultSubjectFilter matches the subject line the ordering platform puts
// on confirmation emails. Anything else is ignored at the boundary.
const DefaultSubjectFilter = `(?i)Incoming Catering Order`

// Engine is the main ingestion facade: it feeds raw messages through the
// parsing pipeline and the dedup gate into the store.
type Engine struct {
	store   store.Store
	parser  *parse.Parser
	log     parse.Logger
	subject *regexp.Regexp

	// Serializes ingestion runs so the dedup check-then-insert cannot race
	// with an overlapping run.
	runMu   sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine instance
type Options struct {
	Store  store.Store
	Parser *parse.Parser
	// Logger receives parsing traces; nil discards them.
	Logger parse.Logger
	// SubjectFilter overrides DefaultSubjectFilter when non-empty.
	SubjectFilter string
}

// New creates an Engine with the given dependencies
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("catermail: store is required")
	}
	if opts.Parser == nil {
		return nil, fmt.Errorf("catermail: parser is required")
	}

	filter := opts.SubjectFilter
	if filter == "" {
		filter = DefaultSubjectFilter
	}
	subject, err := regexp.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("catermail: subject filter: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = parse.NopLogger
	}
	opts.Parser.SetLogger(log)

	return &Engine{
		store:   opts.Store,
		parser:  opts.Parser,
		log:     log,
		subject: subject,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close cleanly shuts down the engine
func (e *Engine) Close() error {
	return e.store.Close()
}

// Result reports what happened to one message.
type Result struct {
	Skipped   bool // subject did not match the trigger filter
	Duplicate bool // an order with the same (email, date, total) already exists
	Order     store.Order
}

// Ingest runs one raw message through the full pipeline. Parsing never
// fails; only store lookups and writes can return an error.
func (e *Engine) Ingest(ctx context.Context, msg mailbox.Message) (Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.ingestLocked(ctx, msg)
}

func (e *Engine) ingestLocked(ctx context.Context, msg mailbox.Message) (Result, error) {
	if !e.subject.MatchString(msg.Subject) {
		e.log.Tracef("subject %q does not match filter, skipping", msg.Subject)
		return Result{Skipped: true}, nil
	}

	order := e.parser.Parse(msg.Body())

	existing, found, err := e.store.FindDuplicate(ctx, order.Customer.Email, order.Date, order.Total)
	if err != nil {
		return Result{}, fmt.Errorf("dedup lookup: %w", err)
	}
	if found {
		e.log.Tracef("duplicate order for %s %s %s, skipping", order.Customer.Email, order.Date, order.Total)
		return Result{Duplicate: true, Order: existing}, nil
	}

	saved, err := e.store.CreateOrder(ctx, toStoreOrder(order))
	if err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}
	e.log.Tracef("saved order %d: %s - %s - %s", saved.ID, saved.CustomerName, saved.Date, saved.Total)
	return Result{Order: saved}, nil
}

// RunReport summarizes one ingestion batch.
type RunReport struct {
	RunID      string
	Messages   int
	Saved      int
	Duplicates int
	Skipped    int
	Errors     int
}

// IngestBatch processes messages sequentially under a run-level lock.
// A store failure on one message is counted and logged, not fatal for the
// batch; context cancellation abandons the remaining messages while keeping
// everything already persisted.
func (e *Engine) IngestBatch(ctx context.Context, msgs []mailbox.Message) (RunReport, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	started := time.Now()
	report := RunReport{
		RunID:    ulid.MustNew(ulid.Now(), e.entropy).String(),
		Messages: len(msgs),
	}

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			e.recordRun(started, report)
			return report, err
		}

		res, err := e.ingestLocked(ctx, msg)
		switch {
		case err != nil:
			report.Errors++
			e.log.Tracef("run %s: message failed: %v", report.RunID, err)
		case res.Skipped:
			report.Skipped++
		case res.Duplicate:
			report.Duplicates++
		default:
			report.Saved++
		}
	}

	e.recordRun(started, report)
	return report, nil
}

func (e *Engine) recordRun(started time.Time, report RunReport) {
	run := store.Run{
		ID:         report.RunID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Messages:   report.Messages,
		Saved:      report.Saved,
		Duplicates: report.Duplicates,
		Errors:     report.Errors,
	}
	// Run bookkeeping is best effort; losing it must not fail the batch.
	if err := e.store.RecordRun(context.Background(), run); err != nil {
		e.log.Tracef("run %s: record failed: %v", report.RunID, err)
	}
}

func toStoreOrder(o parse.Order) store.Order {
	return store.Order{
		OrderType:           o.OrderType,
		Date:                o.Date,
		Time:                o.Time,
		Destination:         o.Destination,
		CustomerName:        o.Customer.Name,
		Phone:               o.Customer.Phone,
		Email:               o.Customer.Email,
		GuestCount:          o.Customer.GuestCount,
		PaperGoods:          o.Customer.PaperGoods,
		SpecialInstructions: o.Customer.SpecialInstructions,
		FoodItems:           toStoreItems(o.Items.Food),
		DrinkItems:          toStoreItems(o.Items.Drinks),
		SauceItems:          toStoreItems(o.Items.Sauces),
		MealBoxes:           toStoreItems(o.Items.MealBoxes),
		Total:               o.Total,
	}
}

func toStoreItems(items []parse.Item) []store.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]store.Item, len(items))
	for i, it := range items {
		out[i] = store.Item{Name: it.Name, Qty: it.Qty}
	}
	return out
}

package catermail

import (
	"context"
	"testing"

	"github.com/cateringops/catermail/internal/mailbox"
	"github.com/cateringops/catermail/pkg/catermail/parse"
	"github.com/cateringops/catermail/pkg/catermail/store/memstore"
)

func newTestEngine(t *testing.T) (*Engine, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	parser := parse.NewParser(parse.NewClassifier(parse.DefaultKeywords(), parse.DefaultHeuristics()))
	eng, err := New(Options{Store: st, Parser: parser})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, st
}

func orderEmail(items string) string {
	return "Delivery Wednesday 11/20/2024 at 10:30 AM\n" +
		"Delivery Address:\n" +
		"500 Commerce Street\n" +
		"Customer Information\n" +
		"Jane Smith\n" +
		"jane.smith@example.com\n" +
		"(615) 555-0142\n" +
		"Item Name Quantity Price\n" +
		items +
		"Total $151.58\n"
}

func TestEngineIngest(t *testing.T) {
	eng, st := newTestEngine(t)
	msg := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}

	res, err := eng.Ingest(context.Background(), msg)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Skipped || res.Duplicate {
		t.Fatalf("result = %+v, want a saved order", res)
	}
	if res.Order.ID == 0 {
		t.Errorf("saved order has no id: %+v", res.Order)
	}
	if res.Order.Email != "jane.smith@example.com" {
		t.Errorf("email = %q", res.Order.Email)
	}
	if res.Order.Date != "11/20/2024" || res.Order.Total != "$151.58" {
		t.Errorf("date = %q total = %q", res.Order.Date, res.Order.Total)
	}
	if len(res.Order.FoodItems) != 1 {
		t.Errorf("food items = %v", res.Order.FoodItems)
	}

	orders, err := st.GetOrders(context.Background())
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("store holds %d orders, want 1", len(orders))
	}
}

func TestEngineIngestSubjectFilter(t *testing.T) {
	eng, st := newTestEngine(t)
	msg := mailbox.Message{
		Subject: "Weekly newsletter",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}

	res, err := eng.Ingest(context.Background(), msg)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !res.Skipped {
		t.Errorf("result = %+v, want skipped", res)
	}

	orders, _ := st.GetOrders(context.Background())
	if len(orders) != 0 {
		t.Errorf("filtered message must not be persisted, store holds %d", len(orders))
	}
}

func TestEngineIngestIdempotent(t *testing.T) {
	eng, st := newTestEngine(t)
	msg := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}

	first, err := eng.Ingest(context.Background(), msg)
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	second, err := eng.Ingest(context.Background(), msg)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if !second.Duplicate {
		t.Errorf("second result = %+v, want duplicate", second)
	}
	if second.Order.ID != first.Order.ID {
		t.Errorf("duplicate reported order %d, want existing %d", second.Order.ID, first.Order.ID)
	}

	orders, _ := st.GetOrders(context.Background())
	if len(orders) != 1 {
		t.Errorf("store holds %d orders, want 1", len(orders))
	}
}

func TestEngineDedupKeyIgnoresItems(t *testing.T) {
	eng, st := newTestEngine(t)
	ctx := context.Background()

	msgA := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}
	msgB := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Gallon Freshly-Brewed Sweet Tea 2 $14.00\n"),
	}

	if _, err := eng.Ingest(ctx, msgA); err != nil {
		t.Fatalf("Ingest A: %v", err)
	}
	res, err := eng.Ingest(ctx, msgB)
	if err != nil {
		t.Fatalf("Ingest B: %v", err)
	}
	// Same email, date, and total: a duplicate even though the item
	// listings differ.
	if !res.Duplicate {
		t.Errorf("result = %+v, want duplicate", res)
	}

	orders, _ := st.GetOrders(ctx)
	if len(orders) != 1 {
		t.Errorf("store holds %d orders, want 1", len(orders))
	}
}

func TestEngineIngestBatch(t *testing.T) {
	eng, st := newTestEngine(t)
	ctx := context.Background()

	order := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}
	newsletter := mailbox.Message{Subject: "Weekly newsletter", Text: "hi"}

	report, err := eng.IngestBatch(ctx, []mailbox.Message{order, order, newsletter})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if report.RunID == "" {
		t.Error("report has no run id")
	}
	if report.Messages != 3 || report.Saved != 1 || report.Duplicates != 1 || report.Skipped != 1 || report.Errors != 0 {
		t.Errorf("report = %+v", report)
	}

	runs, err := st.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %v, want 1", runs)
	}
	if runs[0].ID != report.RunID || runs[0].Saved != 1 || runs[0].Duplicates != 1 {
		t.Errorf("recorded run = %+v", runs[0])
	}
}

func TestEngineIngestBatchCancelled(t *testing.T) {
	eng, st := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := mailbox.Message{
		Subject: "Incoming Catering Order",
		Text:    orderEmail("Chick-fil-A Chicken Sandwich 25 $112.25\n"),
	}
	report, err := eng.IngestBatch(ctx, []mailbox.Message{msg})
	if err == nil {
		t.Fatal("expected context error")
	}
	if report.Saved != 0 {
		t.Errorf("report = %+v, want nothing saved", report)
	}

	orders, _ := st.GetOrders(context.Background())
	if len(orders) != 0 {
		t.Errorf("store holds %d orders, want 0", len(orders))
	}
}

func TestNewValidation(t *testing.T) {
	parser := parse.NewParser(parse.NewClassifier(parse.DefaultKeywords(), parse.DefaultHeuristics()))

	if _, err := New(Options{Parser: parser}); err == nil {
		t.Error("expected error without a store")
	}
	if _, err := New(Options{Store: memstore.New()}); err == nil {
		t.Error("expected error without a parser")
	}
	if _, err := New(Options{Store: memstore.New(), Parser: parser, SubjectFilter: "("}); err == nil {
		t.Error("expected error for an invalid subject filter")
	}
}

// Command catermail-orders inspects and updates persisted catering orders:
// it lists orders, shows recent ingestion runs, and flips the paid and
// kitchen/service completion flags.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cateringops/catermail/pkg/catermail/store"
	"github.com/cateringops/catermail/pkg/catermail/store/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "catermail.db", "Path to SQLite database")
		asJSON   = flag.Bool("json", false, "Output as JSON")
		runs     = flag.Int("runs", 0, "Show the N most recent ingestion runs instead of orders")
		paid     = flag.Int64("paid", 0, "Mark order ID as paid")
		unpaid   = flag.Int64("unpaid", 0, "Mark order ID as unpaid")
		kitchen  = flag.Int64("kitchen", 0, "Mark order ID as completed by kitchen")
		service  = flag.Int64("service", 0, "Mark order ID as completed by kitchen and service")
	)
	flag.Parse()

	ctx := context.Background()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	switch {
	case *paid != 0:
		mustUpdate(st.SetPaid(ctx, *paid, true), "order %d marked paid", *paid)
	case *unpaid != 0:
		mustUpdate(st.SetPaid(ctx, *unpaid, false), "order %d marked unpaid", *unpaid)
	case *kitchen != 0:
		mustUpdate(st.SetCompleted(ctx, *kitchen, true, false), "order %d completed by kitchen", *kitchen)
	case *service != 0:
		mustUpdate(st.SetCompleted(ctx, *service, true, true), "order %d completed by kitchen and service", *service)
	case *runs > 0:
		listRuns(ctx, st, *runs, *asJSON)
	default:
		listOrders(ctx, st, *asJSON)
	}
}

func mustUpdate(err error, format string, args ...any) {
	if err != nil {
		log.Fatalf("update order: %v", err)
	}
	log.Printf(format, args...)
}

func listOrders(ctx context.Context, st store.Store, asJSON bool) {
	orders, err := st.GetOrders(ctx)
	if err != nil {
		log.Fatalf("list orders: %v", err)
	}

	if asJSON {
		printJSON(orders)
		return
	}

	for _, o := range orders {
		flags := ""
		if o.Paid {
			flags += " [paid]"
		}
		if o.CompletedKitchen {
			flags += " [kitchen]"
		}
		if o.CompletedService {
			flags += " [service]"
		}
		items := len(o.FoodItems) + len(o.DrinkItems) + len(o.SauceItems) + len(o.MealBoxes)
		fmt.Printf("#%d %s %s %s - %s, %d items, %s%s\n",
			o.ID, o.OrderType, o.Date, o.Time, o.CustomerName, items, o.Total, flags)
	}
}

func listRuns(ctx context.Context, st store.Store, limit int, asJSON bool) {
	runs, err := st.RecentRuns(ctx, limit)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}

	if asJSON {
		printJSON(runs)
		return
	}

	for _, r := range runs {
		fmt.Printf("%s %s: %d messages, %d saved, %d duplicates, %d errors\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Messages, r.Saved, r.Duplicates, r.Errors)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}

// catermail-poller periodically re-runs the whole ingestion pipeline over a
// spool directory of exported order emails. It is the stand-in for the
// production IMAP poller: same cadence, same batch semantics, different
// message source.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/cateringops/catermail/internal/mailbox"
	"github.com/cateringops/catermail/pkg/catermail"
	"github.com/cateringops/catermail/pkg/catermail/config"
	"github.com/cateringops/catermail/pkg/catermail/store/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "Database path (required)")
		spoolDir = flag.String("spool", "", "Spool directory of message files (required)")
		cfgPath  = flag.String("config", "", "Config file (optional)")
		interval = flag.Duration("interval", 0, "Poll interval (overrides config)")
		once     = flag.Bool("once", false, "Run a single check and exit")
		trace    = flag.Bool("trace", false, "Log parsing traces")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *spoolDir == "" {
		log.Fatal("--spool required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{ConfigPath: *cfgPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	opts := catermail.Options{
		Store:         st,
		Parser:        components.Parser,
		SubjectFilter: components.Poller.SubjectFilter,
	}
	if *trace {
		opts.Logger = traceLogger{}
	}

	engine, err := catermail.New(opts)
	if err != nil {
		log.Fatal("Failed to create engine:", err)
	}
	defer engine.Close()

	source := mailbox.SpoolDir{Dir: *spoolDir}

	every := components.Poller.Interval()
	if *interval > 0 {
		every = *interval
	}

	log.Printf("Catering order poller started, checking every %s", every)

	// Immediate check on startup, then the timer loop.
	check(ctx, engine, source)
	if *once {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Poller stopped")
			return
		case <-ticker.C:
			check(ctx, engine, source)
		}
	}
}

func check(ctx context.Context, engine *catermail.Engine, source mailbox.Source) {
	msgs, err := source.Fetch(ctx)
	if err != nil {
		log.Printf("Failed to fetch messages: %v", err)
		return
	}

	report, err := engine.IngestBatch(ctx, msgs)
	if err != nil {
		log.Printf("Run %s abandoned: %v", report.RunID, err)
		return
	}

	if report.Saved > 0 {
		log.Printf("Run %s: found %d new order(s), %d duplicates, %d errors",
			report.RunID, report.Saved, report.Duplicates, report.Errors)
	} else {
		log.Printf("Run %s: no new orders", report.RunID)
	}
}

type traceLogger struct{}

func (traceLogger) Tracef(format string, args ...any) {
	log.Printf("[trace] "+format, args...)
}

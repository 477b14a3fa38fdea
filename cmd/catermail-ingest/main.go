package main

import (
	"context"
	"flag"
	"log"

	"github.com/cateringops/catermail/internal/mailbox"
	"github.com/cateringops/catermail/pkg/catermail"
	"github.com/cateringops/catermail/pkg/catermail/config"
	"github.com/cateringops/catermail/pkg/catermail/store/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "Database path (required)")
		dataPath = flag.String("data", "", "Input JSONL file of messages (required)")
		cfgPath  = flag.String("config", "", "Config file (optional)")
		trace    = flag.Bool("trace", false, "Log parsing traces")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *dataPath == "" {
		log.Fatal("--data required")
	}

	ctx := context.Background()

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

	msgs, err := mailbox.FileSource{Path: *dataPath}.Fetch(ctx)
	if err != nil {
		log.Fatal("Failed to load messages:", err)
	}

	log.Printf("Loaded %d messages from %s", len(msgs), *dataPath)

	report, err := engine.IngestBatch(ctx, msgs)
	if err != nil {
		log.Fatal("Ingestion failed:", err)
	}

	log.Printf("Run %s complete: %d saved, %d duplicates, %d skipped, %d errors",
		report.RunID, report.Saved, report.Duplicates, report.Skipped, report.Errors)
}

type traceLogger struct{}

func (traceLogger) Tracef(format string, args ...any) {
	log.Printf("[trace] "+format, args...)
}

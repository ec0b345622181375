package main

import (
	"context"
	"log"
	"net/http"

	webAdapter "orderdesk/internal/adapters/web"
	"orderdesk/internal/app"
	"orderdesk/internal/audit"
	"orderdesk/internal/config"
	"orderdesk/internal/core"
	"orderdesk/internal/db"
	"orderdesk/internal/sheet"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer cleanup()

	trail, err := audit.NewTrail(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("audit trail: %v", err)
	}
	defer trail.Close()

	catalog := core.NewCatalog(store)
	orders := core.NewOrders(store, trail)
	timeline := core.NewTimeline(store, catalog, trail)
	ledger := core.NewLedger(store, trail)
	statement := core.NewStatementBuilder(store)
	reports := core.NewReports(store, catalog)

	svc := app.NewAppService(orders, timeline, ledger, statement, catalog, reports)
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins)

	log.Printf("server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// newStore builds the configured record store. The memory driver exists for
// local demos and tests; everything else runs on Postgres.
func newStore(ctx context.Context, cfg *config.Config) (sheet.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		return seededMemory(), func() {}, nil
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return sheet.NewPostgres(pool), pool.Close, nil
}

func seededMemory() *sheet.Memory {
	m := sheet.NewMemory()
	m.Seed("orders", [][]string{
		{"status", "order_no", "client", "patient", "due_date", "delivered_date", "amount", "paid", "paid_at", "notes"},
	})
	m.Seed("status_history", [][]string{
		{"record_id", "order_no", "status", "started_at", "deadline_days", "deadline_at", "note", "author", "recorded_at"},
	})
	m.Seed("payments", [][]string{
		{"client", "paid_on", "amount", "note"},
	})
	m.Seed("status_catalog", [][]string{
		{"status", "deadline_required", "display_order", "ledger_terminal"},
		{"Registered", "S", "1", ""},
		{"In Production", "S", "2", ""},
		{"Ready for Delivery", "", "3", ""},
		{"Delivered", "", "4", "S"},
	})
	return m
}

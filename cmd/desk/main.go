package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"orderdesk/internal/app"
	"orderdesk/internal/audit"
	"orderdesk/internal/coerce"
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
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	store := sheet.NewPostgres(pool)

	trail, err := audit.NewTrail(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("audit trail: %v", err)
	}
	defer trail.Close()

	catalog := core.NewCatalog(store)
	svc := app.NewAppService(
		core.NewOrders(store, trail),
		core.NewTimeline(store, catalog, trail),
		core.NewLedger(store, trail),
		core.NewStatementBuilder(store),
		catalog,
		core.NewReports(store, catalog),
	)

	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "orders":
		printOrders(ctx, svc)
	case "history":
		printHistory(ctx, svc, argInt(2, "order number"))
	case "statement":
		printStatement(ctx, svc, arg(2, "client name"))
	case "reconcile":
		result, err := svc.Reconcile(ctx, arg(2, "client name"))
		if err != nil {
			log.Fatalf("reconcile: %v", err)
		}
		fmt.Printf("%s: paid %s, remaining balance %s (%d marked, %d cleared)\n",
			result.Client, coerce.FormatAmount(result.TotalPaid),
			coerce.FormatAmount(result.RemainingBalance),
			result.OrdersMarked, result.OrdersCleared)
	case "clients":
		result, err := svc.ListClients(ctx)
		if err != nil {
			log.Fatalf("clients: %v", err)
		}
		for _, c := range result.Clients {
			fmt.Println(c)
		}
	case "dashboard":
		printDashboard(ctx, svc)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: desk <command>

Commands:
  orders                 list all orders
  history <number>       show an order's status timeline
  statement <client>     show a client's account statement
  reconcile <client>     reapply payments to delivered orders
  clients                list client names
  dashboard              show the operational summary`)
	os.Exit(2)
}

func arg(i int, name string) string {
	if len(os.Args) <= i {
		log.Fatalf("missing %s argument", name)
	}
	return os.Args[i]
}

func argInt(i int, name string) int {
	n, err := strconv.Atoi(arg(i, name))
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return n
}

func printOrders(ctx context.Context, svc app.ApplicationService) {
	result, err := svc.ListOrders(ctx)
	if err != nil {
		log.Fatalf("orders: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tCLIENT\tSTATUS\tDUE\tAMOUNT\tPAID")
	for _, o := range result.Orders {
		paid := ""
		if o.Paid {
			paid = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			o.Number, o.Client, o.Status, o.DueDate, coerce.FormatAmount(o.Amount), paid)
	}
	w.Flush()
}

func printHistory(ctx context.Context, svc app.ApplicationService, number int) {
	result, err := svc.GetOrder(ctx, number)
	if err != nil {
		log.Fatalf("order %d: %v", number, err)
	}
	fmt.Printf("Order %d (%s) - %s\n", result.Order.Number, result.Order.Client, result.Order.Status)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tDEADLINE\tAUTHOR\tNOTE")
	for _, rec := range result.History {
		deadline := ""
		if rec.DeadlineAt != nil {
			deadline = rec.DeadlineAt.Format("02/01/2006 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.StartedRaw, rec.Status, deadline, rec.Author, rec.Note)
	}
	w.Flush()
}

func printStatement(ctx context.Context, svc app.ApplicationService, client string) {
	st, err := svc.GetStatement(ctx, client)
	if err != nil {
		log.Fatalf("statement: %v", err)
	}
	fmt.Printf("Statement for %s\n\n", st.Client)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DELIVERED\tORDER\tAMOUNT\tPAID")
	for _, o := range st.Orders {
		paid := ""
		if o.Paid {
			paid = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.DeliveredDate, o.Number, coerce.FormatAmount(o.Amount), paid)
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAID ON\tAMOUNT\tNOTE")
	for _, p := range st.Payments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.PaidOn, coerce.FormatAmount(p.Amount), p.Note)
	}
	w.Flush()

	fmt.Printf("\nTotal owed: %s\nTotal paid: %s\nBalance due: %s\n",
		coerce.FormatAmount(st.Summary.TotalOwed),
		coerce.FormatAmount(st.Summary.TotalPaid),
		coerce.FormatAmount(st.Summary.BalanceDue))
}

func printDashboard(ctx context.Context, svc app.ApplicationService) {
	dash, err := svc.Dashboard(ctx)
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	fmt.Printf("Receivables: %d orders, %s outstanding\n\n",
		dash.Receivables.Orders, coerce.FormatAmount(dash.Receivables.Amount))
	fmt.Printf("Deadlines: %d overdue, %d due today, %d upcoming\n\n",
		len(dash.Deadlines.Overdue), len(dash.Deadlines.DueToday), len(dash.Deadlines.Upcoming))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tORDERS\tAMOUNT")
	for _, s := range dash.Statuses {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Status, s.Orders, coerce.FormatAmount(s.Amount))
	}
	w.Flush()
}

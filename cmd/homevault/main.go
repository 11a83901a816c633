package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mzajc/homevault/internal/app"
	"github.com/mzajc/homevault/internal/backup"
	"github.com/mzajc/homevault/internal/config"
	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/ocr"
	"github.com/mzajc/homevault/internal/report"
	"github.com/mzajc/homevault/internal/score"
	"github.com/mzajc/homevault/internal/store"
	"github.com/mzajc/homevault/internal/tier"
)

const usage = `Usage: homevault <command> [flags]

Commands:
  init      create the catalog and seed the default categories and rooms
  seed      seed demo items into the catalog
  add       add an item to the catalog
  list      list catalogued items with documentation scores
  delete    delete an item (photos removed, receipts kept unlinked)
  scan      OCR a receipt image and store it
  report    generate an inventory or loss-list PDF
  csv       export the item table as CSV (pro)
  export    write a backup archive
  import    restore a backup archive
  check     report dangling asset references

Configuration comes from HOMEVAULT_* environment variables (or a .env file).
`

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+
// to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{stdout: lr.stdout.WithAttrs(attrs), stderr: lr.stderr.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{stdout: lr.stdout.WithGroup(name), stderr: lr.stderr.WithGroup(name)}
}

func setupLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	handler := &levelRouter{
		stdout: slog.NewTextHandler(os.Stdout, opts),
		stderr: slog.NewTextHandler(os.Stderr, opts),
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	setupLogger()

	// Cancel everything on SIGINT/SIGTERM so long-running work (reports,
	// OCR, backups) stops cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	defer a.Close()

	switch os.Args[1] {
	case "init":
		err = cmdInit(a)
	case "seed":
		err = cmdSeed(ctx, a)
	case "add":
		err = cmdAdd(ctx, a, os.Args[2:])
	case "list":
		err = cmdList(ctx, a)
	case "delete":
		err = cmdDelete(ctx, a, os.Args[2:])
	case "scan":
		err = cmdScan(ctx, a, os.Args[2:])
	case "report":
		err = cmdReport(ctx, a, os.Args[2:])
	case "csv":
		err = cmdCSV(ctx, a, os.Args[2:])
	case "export":
		err = cmdExport(ctx, a, os.Args[2:])
	case "import":
		err = cmdImport(ctx, a, os.Args[2:])
	case "check":
		err = cmdCheck(ctx, a)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s", os.Args[1], usage)
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	slog.Error("command failed", "error", err)
	os.Exit(1)
}

func cmdInit(a *app.App) error {
	// app.New already created the database, ran migrations and seeded the
	// system categories and rooms.
	fmt.Printf("Catalog initialized.\n  database: %s\n  assets:   %s\n  reports:  %s\n",
		a.Config.DBPath, a.Config.AssetsDir, a.Config.ReportsDir)
	return nil
}

func cmdSeed(ctx context.Context, a *app.App) error {
	if err := store.SeedDemo(ctx, a.DB); err != nil {
		return err
	}
	fmt.Println("Demo items seeded.")
	return nil
}

func cmdAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "item name")
	category := fs.String("category", "Other", "category name")
	room := fs.String("room", "Living Room", "room name")
	brand := fs.String("brand", "", "brand")
	serial := fs.String("serial", "", "serial number")
	condition := fs.String("condition", "", "condition: new, like_new, good or fair")
	price := fs.Float64("price", 0, "purchase price")
	photo := fs.String("photo", "", "photo path (optional)")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("add: -name required")
	}

	categoryID, err := lookupCategory(ctx, a, *category)
	if err != nil {
		return err
	}
	roomID, err := lookupRoom(ctx, a, *room)
	if err != nil {
		return err
	}

	item := &model.Item{
		Name:         *name,
		Brand:        *brand,
		SerialNumber: *serial,
		Condition:    *condition,
		CategoryID:   categoryID,
		RoomID:       roomID,
	}
	if *price > 0 {
		cents := int64(*price*100 + 0.5)
		item.PriceCents = &cents
	}

	created, err := a.AddItem(ctx, item)
	if err != nil {
		return err
	}
	fmt.Printf("Item %d added.\n", created.ID)

	if *photo != "" {
		data, err := os.ReadFile(*photo)
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		if _, err := a.AttachPhoto(ctx, created.ID, data, "", true); err != nil {
			return err
		}
		fmt.Println("Photo attached.")
	}

	warning, err := a.InsertWarning(ctx)
	if err != nil {
		return err
	}
	if warning != tier.WarningNone {
		fmt.Printf("Warning: %s\n", warning)
	}
	return nil
}

func lookupCategory(ctx context.Context, a *app.App, name string) (int64, error) {
	categories, err := store.ListCategories(ctx, a.DB)
	if err != nil {
		return 0, err
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

func lookupRoom(ctx context.Context, a *app.App, name string) (int64, error) {
	rooms, err := store.ListRooms(ctx, a.DB)
	if err != nil {
		return 0, err
	}
	for _, r := range rooms {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown room %q", name)
}

func cmdList(ctx context.Context, a *app.App) error {
	items, err := store.ListItems(ctx, a.DB, store.ItemFilter{})
	if err != nil {
		return err
	}

	warning, err := a.InsertWarning(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		p := score.PresenceOf(item)
		value := "-"
		if item.PriceCents != nil {
			value = strconv.FormatFloat(float64(*item.PriceCents)/100, 'f', 2, 64)
		}
		fmt.Printf("%4d  %-30s  %-12s  %-12s  %8s  %3.0f%% %s\n",
			item.ID, item.Name, item.RoomName, item.CategoryName,
			value, score.Extended(p)*100, score.Level(p))
	}
	fmt.Printf("%d items\n", len(items))
	if warning != tier.WarningNone {
		fmt.Printf("Warning: %s\n", warning)
	}
	return nil
}

func cmdDelete(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "item id")
	fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("delete: -id required")
	}
	return a.DeleteItem(ctx, *id)
}

func cmdScan(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	path := fs.String("image", "", "receipt image path")
	itemID := fs.Int64("item", 0, "item to link the receipt to (optional)")
	fs.Parse(args)

	if *path == "" {
		return fmt.Errorf("scan: -image required")
	}
	image, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	var link *int64
	if *itemID != 0 {
		link = itemID
	}
	receipt, err := a.ScanReceipt(ctx, image, link)
	if err != nil {
		return err
	}

	fmt.Printf("Receipt %d stored (vendor %q, confidence %.0f%%)\n",
		receipt.ID, receipt.Vendor, receipt.OCRConfidence*100)
	if receipt.OCRConfidence < ocr.LowConfidence {
		fmt.Println("Low confidence: review the extracted fields manually.")
	}
	return nil
}

func cmdReport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	kindFlag := fs.String("kind", "full", "report kind: full or loss")
	fs.Parse(args)

	kind := report.KindFullInventory
	if *kindFlag == "loss" {
		kind = report.KindLossList
	}

	job := a.Reports.Generate(ctx, kind)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-job.Done():
			status := job.Status()
			switch status.State {
			case report.StateComplete:
				fmt.Printf("\rReport written: %s\n", status.Path)
				return nil
			case report.StateCancelled:
				fmt.Println("\rReport cancelled.")
				return nil
			default:
				return status.Err
			}
		case <-ticker.C:
			fmt.Printf("\rGenerating... %3.0f%%", job.Status().Progress*100)
		}
	}
}

func cmdCSV(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("csv", flag.ExitOnError)
	out := fs.String("out", "items.csv", "output path")
	fs.Parse(args)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	if err := a.ExportCSV(ctx, f); err != nil {
		return err
	}
	fmt.Printf("CSV written: %s\n", *out)
	return nil
}

func cmdExport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "homevault-backup.zip", "archive path")
	withAssets := fs.Bool("assets", false, "bundle photo and receipt binaries")
	fs.Parse(args)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	if err := a.Backup.Export(ctx, f, backup.ExportOptions{IncludeAssets: *withAssets}); err != nil {
		return err
	}
	fmt.Printf("Backup written: %s\n", *out)
	return nil
}

func cmdImport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "archive path")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("import: -in required")
	}
	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	if err := a.Backup.Restore(ctx, f, info.Size()); err != nil {
		return err
	}
	fmt.Println("Catalog restored.")
	return nil
}

func cmdCheck(ctx context.Context, a *app.App) error {
	missing, err := a.MissingAssets(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		fmt.Println("All asset references resolve.")
		return nil
	}
	for _, id := range missing {
		fmt.Printf("missing asset: %s\n", id)
	}
	fmt.Printf("%d dangling references (not auto-deleted)\n", len(missing))
	return nil
}

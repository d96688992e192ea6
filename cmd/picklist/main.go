package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"picklist/internal/config"
	"picklist/internal/connectors"
	"picklist/internal/connectors/file"
	"picklist/internal/connectors/shipstation"
	"picklist/internal/listener"
	"picklist/internal/logger"
	"picklist/internal/pipeline"
	"picklist/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	must(err)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "refresh":
		must(requireShipStation(cfg))
		db := openDB(cfg)
		defer db.Close()
		proc := pipeline.NewProcessingService(db, cfg, shipstation.NewClient(cfg), log)
		must(proc.RefreshAll(ctx))
		fmt.Printf("refreshed %d stores\n", len(cfg.StoreIDs()))
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		storeName := fs.String("store", "", "AMAZON|EBAY|BUCKEROO|PREMIER|NSOTD")
		input := fs.String("input", "", "saved orders json instead of ShipStation")
		xlsx := fs.String("xlsx", "", "also write the pick list workbook to this path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*storeName) == "" {
			must(fmt.Errorf("--store is required"))
		}

		store, err := pipeline.FindStore(cfg, *storeName)
		must(err)

		var source connectors.OrderSource
		if strings.TrimSpace(*input) != "" {
			source = file.NewSource(*input)
			store = store.Offline()
		} else {
			must(requireShipStation(cfg))
			source = shipstation.NewClient(cfg)
		}

		xlsxPath := *xlsx
		if xlsxPath == "" && cfg.ExportXLSX {
			xlsxPath = store.XLSXPath(cfg)
		}

		db := openDB(cfg)
		defer db.Close()
		proc := pipeline.NewProcessingService(db, cfg, source, log)
		res, err := proc.RunStore(ctx, store, xlsxPath)
		must(err)
		fmt.Printf("run done store=%s orders=%d new=%d units=%d unparsed=%d output=%s\n",
			res.Store, res.Orders, res.NewOrders, res.Units, len(res.Unparsed), res.PickListPath)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		storeName := fs.String("store", "", "only runs of this store")
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])

		db := openDB(cfg)
		defer db.Close()
		runs, err := db.ListRuns(strings.ToUpper(strings.TrimSpace(*storeName)), *limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %-8s orders=%d new=%d units=%d unparsed=%d trace=%s\n",
				r.StartedAt, r.Store, r.Orders, r.NewOrders, r.Units, r.Unparsed, r.TraceID)
		}
	case "watch":
		must(requireShipStation(cfg))
		db := openDB(cfg)
		defer db.Close()
		proc := pipeline.NewProcessingService(db, cfg, shipstation.NewClient(cfg), log)
		must(listener.NewService(cfg, proc, log).Run(ctx))
	case "locations":
		locations, err := storage.ReadLocations(cfg.LocationFile)
		must(err)
		for _, l := range locations {
			fmt.Printf("%s, %s\t%s\n", l.City, l.Country, l.URL)
		}
		log.Debug("locations listed", zap.Int("count", len(locations)), zap.String("file", cfg.LocationFile))
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func requireShipStation(cfg config.Config) error {
	if err := cfg.Require("SHIPSTATION_API_KEY", cfg.ShipStationAPIKey); err != nil {
		return err
	}
	return cfg.Require("SHIPSTATION_API_SECRET", cfg.ShipStationSecret)
}

func usage() {
	fmt.Println("usage: picklist <command>")
	fmt.Println("commands:")
	fmt.Println("  refresh")
	fmt.Println("  run --store=AMAZON|EBAY|BUCKEROO|PREMIER|NSOTD [--input=orders.json] [--xlsx=out/orders.xlsx]")
	fmt.Println("  runs [--store=NAME] [--limit=20]")
	fmt.Println("  watch")
	fmt.Println("  locations")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

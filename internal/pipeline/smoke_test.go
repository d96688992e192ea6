package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picklist/internal/config"
	"picklist/internal/connectors/file"
	"picklist/internal/storage"
)

const smokeOrders = `{"orders":[
 {"orderNumber":"101","billTo":{"name":"Ann"},"shipTo":{"city":"Austin","country":"US"},
  "items":[{"sku":"PREM-646-MED","name":"Tee","quantity":1}]},
 {"orderNumber":"102","billTo":{"name":"Ann"},"shipTo":{"city":"Austin","country":"US"},
  "items":[{"sku":"PREM-646-XL-SL","name":"Tee","quantity":3}]},
 {"orderNumber":"103","billTo":{"name":"Luc"},"shipTo":{"city":"Montreal","country":"CA"},
  "items":[{"sku":"OLD-CODE","name":"Hat","quantity":1},{"sku":"wi_884","name":"GIFT-CARD","quantity":1}]}
],"total":3,"page":1,"pages":1}`

func smokeConfig(t *testing.T) config.Config {
	t.Helper()
	tmp := t.TempDir()
	mapPath := filepath.Join(tmp, "sku_map.yaml")
	if err := os.WriteFile(mapPath, []byte("OLD-CODE: PREM-646-LRG\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Config{
		DataDir:      filepath.Join(tmp, "data"),
		OutputDir:    filepath.Join(tmp, "out"),
		DBPath:       filepath.Join(tmp, "data", "runs.db"),
		LocationFile: filepath.Join(tmp, "out", "world_map.html"),
		HomeCountry:  "US",
		SKUMapPath:   mapPath,
	}
}

func TestSmokeStoreRunFromFile(t *testing.T) {
	cfg := smokeConfig(t)
	ordersPath := filepath.Join(t.TempDir(), "orders.json")
	if err := os.WriteFile(ordersPath, []byte(smokeOrders), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store, err := FindStore(cfg, "amazon")
	if err != nil {
		t.Fatal(err)
	}
	store = store.Offline()

	var banner bytes.Buffer
	proc := NewProcessingService(db, cfg, file.NewSource(ordersPath), nil)
	proc.SetOutput(&banner)

	xlsxPath := store.XLSXPath(cfg)
	res, err := proc.RunStore(context.Background(), store, xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	if res.Orders != 3 || res.NewOrders != 3 || res.Units != 6 {
		t.Fatalf("result=%+v", res)
	}
	if len(res.Unparsed) != 1 || res.Unparsed[0] != "GIFT-CARD" {
		t.Fatalf("unparsed=%v", res.Unparsed)
	}
	if !strings.Contains(banner.String(), "| AMAZON: 3 ORDERS |") {
		t.Fatalf("banner=%q", banner.String())
	}

	blob, err := os.ReadFile(store.PickListPath(cfg))
	if err != nil {
		t.Fatal(err)
	}
	pickList := string(blob)
	if !strings.HasPrefix(pickList, "GIFT-CARD\n\nPREM-646 -> MED, LRG, XL (3)\n") {
		t.Fatalf("pick list=%q", pickList)
	}
	if !strings.Contains(pickList, "\tAnn - 2\n") || !strings.Contains(pickList, "\t102 - Ann - PREM-646-XL (3)\n") {
		t.Fatalf("pick list trailer=%q", pickList)
	}

	ids, err := storage.LoadOrderIDs(store.IDPath(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids=%v", ids)
	}
	locations, err := storage.ReadLocations(cfg.LocationFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 1 || locations[0].City != "Montreal" || locations[0].Country != "CA" {
		t.Fatalf("locations=%+v", locations)
	}
	if _, err := os.Stat(xlsxPath); err != nil {
		t.Fatal(err)
	}

	second, err := proc.RunStore(context.Background(), store, "")
	if err != nil {
		t.Fatal(err)
	}
	if second.NewOrders != 0 || second.Units != 0 {
		t.Fatalf("second run=%+v", second)
	}
	blob, err = os.ReadFile(store.PickListPath(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(blob), "\n------------------------------------------\n\nAMAZON: 3 ORDERS\n") {
		t.Fatalf("second pick list=%q", string(blob))
	}
	locations, err = storage.ReadLocations(cfg.LocationFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 1 {
		t.Fatalf("seen foreign order added a location: %+v", locations)
	}

	runs, err := db.ListRuns("AMAZON", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].TraceID != second.TraceID || runs[1].NewOrders != 3 {
		t.Fatalf("runs=%+v", runs)
	}
	history, err := db.ListOrderHistory(second.TraceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 || !history[0].Seen {
		t.Fatalf("history=%+v", history)
	}
}

func TestSmokeLatestOrderTrailer(t *testing.T) {
	cfg := smokeConfig(t)
	ordersPath := filepath.Join(t.TempDir(), "orders.json")
	if err := os.WriteFile(ordersPath, []byte(smokeOrders), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store, err := FindStore(cfg, "PREMIER")
	if err != nil {
		t.Fatal(err)
	}
	proc := NewProcessingService(db, cfg, file.NewSource(ordersPath), nil)
	proc.SetOutput(&bytes.Buffer{})

	if _, err := proc.RunStore(context.Background(), store.Offline(), ""); err != nil {
		t.Fatal(err)
	}
	blob, err := os.ReadFile(store.PickListPath(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(blob), "\n------------------------------------------\n\nPREMIER:  103") {
		t.Fatalf("pick list=%q", string(blob))
	}
}

func TestRunStoreWithoutStoreIDs(t *testing.T) {
	cfg := smokeConfig(t)
	store, err := FindStore(cfg, "EBAY")
	if err != nil {
		t.Fatal(err)
	}
	proc := NewProcessingService(nil, cfg, file.NewSource("unused.json"), nil)
	if _, err := proc.RunStore(context.Background(), store, ""); err == nil {
		t.Fatal("expected error for unconfigured store")
	}
}

func TestRefreshAllResetsLocations(t *testing.T) {
	cfg := smokeConfig(t)
	if err := storage.NewAppendFile(cfg.LocationFile).Append("<h3>old</h3>\n"); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	proc := NewProcessingService(db, cfg, file.NewSource("unused.json"), nil)
	if err := proc.RefreshAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	blob, err := os.ReadFile(cfg.LocationFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "\n" {
		t.Fatalf("location file=%q", string(blob))
	}
	last, err := db.GetMetadata("refresh.last")
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || *last == "" {
		t.Fatal("refresh.last not recorded")
	}
}

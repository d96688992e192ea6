package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"picklist/internal"
	"picklist/internal/config"
	"picklist/internal/connectors"
	"picklist/internal/sku"
	"picklist/internal/storage"
)

const lastRefreshKey = "refresh.last"

type ProcessingService struct {
	db     *storage.DB
	cfg    config.Config
	source connectors.OrderSource
	log    *zap.Logger
	out    io.Writer
}

func NewProcessingService(db *storage.DB, cfg config.Config, source connectors.OrderSource, log *zap.Logger) *ProcessingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessingService{db: db, cfg: cfg, source: source, log: log, out: os.Stdout}
}

// SetOutput redirects the run banner, stdout by default.
func (s *ProcessingService) SetOutput(w io.Writer) {
	s.out = w
}

type RunResult struct {
	TraceID      string
	Store        string
	Orders       int
	NewOrders    int
	Units        int
	Unparsed     []string
	PickListPath string
	XLSXPath     string
}

// RunStore pulls the store's open orders, records them and writes its pick
// list. An empty xlsxPath skips the workbook copy.
func (s *ProcessingService) RunStore(ctx context.Context, store Store, xlsxPath string) (RunResult, error) {
	start := time.Now()
	traceID := uuid.NewString()
	log := s.log.With(zap.String("store", store.Name), zap.String("traceId", traceID))

	if len(store.StoreIDs) == 0 {
		return RunResult{}, fmt.Errorf("store %s has no ShipStation store ids configured", store.Name)
	}

	remap, err := sku.LoadRemap(s.cfg.SKUMapPath)
	if err != nil {
		return RunResult{}, err
	}
	seen, err := storage.LoadOrderIDs(store.IDPath(s.cfg))
	if err != nil {
		return RunResult{}, fmt.Errorf("load order ids: %w", err)
	}

	orderLog := storage.NewAppendFile(store.LogPath(s.cfg))
	if err := orderLog.Reset(""); err != nil {
		return RunResult{}, fmt.Errorf("reset order log: %w", err)
	}

	lists, err := s.fetchAll(ctx, store, log)
	if err != nil {
		return RunResult{}, err
	}
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	if _, err := io.WriteString(s.out, banner(store.Name, total)); err != nil {
		return RunResult{}, err
	}

	batch := NewBatch(seen, s.cfg.HomeCountry, sku.NewCleaner(remap), Sinks{
		Log:       orderLog,
		IDs:       storage.NewAppendFile(store.IDPath(s.cfg)),
		Locations: storage.NewAppendFile(s.cfg.LocationFile),
	})
	for _, list := range lists {
		if err := batch.Ingest(list, store.IDField); err != nil {
			return RunResult{}, err
		}
	}

	cleaned := batch.Normalize()
	lines, err := RenderPickList(cleaned)
	if err != nil {
		return RunResult{}, err
	}
	pickList := store.PickListPath(s.cfg)
	if err := WritePickList(pickList, lines); err != nil {
		return RunResult{}, fmt.Errorf("write pick list: %w", err)
	}

	trailer, err := s.trailer(store, lists, batch)
	if err != nil {
		return RunResult{}, err
	}
	if err := storage.NewAppendFile(pickList).Append(trailer); err != nil {
		return RunResult{}, fmt.Errorf("write trailer: %w", err)
	}

	if xlsxPath != "" {
		if err := ExportPickListToXLSX(cleaned, xlsxPath); err != nil {
			return RunResult{}, fmt.Errorf("export xlsx: %w", err)
		}
	}

	res := RunResult{
		TraceID:      traceID,
		Store:        store.Name,
		Orders:       batch.Orders(),
		NewOrders:    batch.FreshOrders(),
		Units:        batch.NewOrders().Total(),
		Unparsed:     cleaned.Unparsed(),
		PickListPath: pickList,
		XLSXPath:     xlsxPath,
	}
	for _, raw := range res.Unparsed {
		log.Warn("unparsed sku", zap.String("sku", raw))
	}

	if err := s.db.InsertRun(internal.RunRow{
		TraceID:    traceID,
		Store:      store.Name,
		Orders:     res.Orders,
		NewOrders:  res.NewOrders,
		Units:      res.Units,
		Unparsed:   len(res.Unparsed),
		OutputPath: pickList,
	}, batch.History()); err != nil {
		return RunResult{}, fmt.Errorf("record run: %w", err)
	}

	log.Info("store run finished",
		zap.Int("orders", res.Orders),
		zap.Int("newOrders", res.NewOrders),
		zap.Int("units", res.Units),
		zap.Int("unparsed", len(res.Unparsed)),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *ProcessingService) fetchAll(ctx context.Context, store Store, log *zap.Logger) ([][]internal.RawOrder, error) {
	lists := make([][]internal.RawOrder, 0, len(store.StoreIDs)*len(store.Statuses))
	for _, storeID := range store.StoreIDs {
		if err := s.source.RefreshStore(ctx, storeID); err != nil {
			return nil, fmt.Errorf("refresh store %s: %w", storeID, err)
		}
		for _, status := range store.Statuses {
			orders, err := s.source.FetchOrders(ctx, storeID, status)
			if err != nil {
				return nil, fmt.Errorf("fetch %s orders of store %s: %w", status, storeID, err)
			}
			log.Debug("fetched orders",
				zap.String("storeId", storeID),
				zap.String("status", string(status)),
				zap.Int("count", len(orders)),
			)
			lists = append(lists, orders)
		}
	}
	return lists, nil
}

func (s *ProcessingService) trailer(store Store, lists [][]internal.RawOrder, batch *Batch) (string, error) {
	if store.Trailer == TrailerSummary {
		return SummaryTrailer(store.Name, batch.Orders(), batch), nil
	}
	var all []internal.RawOrder
	for _, list := range lists {
		all = append(all, list...)
	}
	latest, err := LatestOrder(all, store.IDField)
	if err != nil {
		return "", err
	}
	return LatestOrderTrailer(store.Name, latest), nil
}

// RefreshAll asks ShipStation to resync every configured store, gives the
// marketplaces time to catch up, then starts a new location file.
func (s *ProcessingService) RefreshAll(ctx context.Context) error {
	ids := s.cfg.StoreIDs()
	for _, id := range ids {
		if err := s.source.RefreshStore(ctx, id); err != nil {
			return fmt.Errorf("refresh store %s: %w", id, err)
		}
		s.log.Info("store refresh requested", zap.String("storeId", id))
	}

	wait := time.Duration(s.cfg.RefreshWaitSec) * time.Second
	if wait > 0 {
		s.log.Info("waiting for stores to refresh", zap.Duration("wait", wait))
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := storage.NewAppendFile(s.cfg.LocationFile).Reset("\n"); err != nil {
		return fmt.Errorf("reset location file: %w", err)
	}
	if err := s.db.SetMetadata(lastRefreshKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	s.log.Info("refresh complete", zap.Int("stores", len(ids)))
	return nil
}

func banner(name string, orders int) string {
	title := "| " + name + ": " + strconv.Itoa(orders) + " ORDERS |"
	rule := "+" + strings.Repeat("-", len(title)-2) + "+"
	return rule + "\n" + title + "\n" + rule + "\n"
}

package listener

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"picklist/internal/config"
	"picklist/internal/pipeline"
)

// Service reruns the watched stores on a fixed interval so the pick lists on
// disk follow the incoming orders.
type Service struct {
	cfg  config.Config
	proc *pipeline.ProcessingService
	log  *zap.Logger
}

func NewService(cfg config.Config, proc *pipeline.ProcessingService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, proc: proc, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	stores, err := s.stores()
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return fmt.Errorf("no stores to watch: set WATCH_STORES or the STORE_* ids")
	}

	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	for {
		s.runCycle(ctx, stores)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// runCycle runs every store once and reports how many succeeded. A failing
// store is logged and does not stop the others.
func (s *Service) runCycle(ctx context.Context, stores []pipeline.Store) int {
	ok := 0
	for _, store := range stores {
		if ctx.Err() != nil {
			break
		}
		xlsxPath := ""
		if s.cfg.ExportXLSX {
			xlsxPath = store.XLSXPath(s.cfg)
		}
		res, err := s.proc.RunStore(ctx, store, xlsxPath)
		if err != nil {
			s.log.Error("store run failed", zap.String("store", store.Name), zap.Error(err))
			continue
		}
		ok++
		s.log.Info("watch cycle store done",
			zap.String("store", res.Store),
			zap.Int("newOrders", res.NewOrders),
			zap.Int("units", res.Units),
		)
	}
	return ok
}

func (s *Service) stores() ([]pipeline.Store, error) {
	if len(s.cfg.WatchStores) > 0 {
		out := make([]pipeline.Store, 0, len(s.cfg.WatchStores))
		for _, name := range s.cfg.WatchStores {
			store, err := pipeline.FindStore(s.cfg, name)
			if err != nil {
				return nil, err
			}
			out = append(out, store)
		}
		return out, nil
	}

	out := []pipeline.Store{}
	for _, store := range pipeline.Stores(s.cfg) {
		if len(store.StoreIDs) > 0 {
			out = append(out, store)
		}
	}
	return out, nil
}

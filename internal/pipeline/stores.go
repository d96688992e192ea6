package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"picklist/internal"
	"picklist/internal/config"
)

type TrailerKind int

const (
	TrailerSummary TrailerKind = iota
	TrailerLatestOrder
)

// Store is one sales channel as seen through ShipStation.
type Store struct {
	Name     string
	StoreIDs []string
	Statuses []internal.OrderStatus
	IDField  internal.OrderIDField
	Trailer  TrailerKind
}

func Stores(cfg config.Config) []Store {
	awaiting := []internal.OrderStatus{internal.StatusAwaitingShipment}
	return []Store{
		{
			Name:     "AMAZON",
			StoreIDs: nonBlank(cfg.StoreAmazonUSA, cfg.StoreAmazonCAN),
			Statuses: []internal.OrderStatus{internal.StatusAwaitingShipment, internal.StatusPendingFulfillment},
			IDField:  internal.FieldOrderNumber,
			Trailer:  TrailerSummary,
		},
		{
			Name:     "EBAY",
			StoreIDs: nonBlank(cfg.StoreEbay),
			Statuses: awaiting,
			IDField:  internal.FieldOrderKey,
			Trailer:  TrailerLatestOrder,
		},
		{
			Name:     "BUCKEROO",
			StoreIDs: nonBlank(cfg.StoreBuckeroo),
			Statuses: awaiting,
			IDField:  internal.FieldOrderNumber,
			Trailer:  TrailerLatestOrder,
		},
		{
			Name:     "PREMIER",
			StoreIDs: nonBlank(cfg.StorePremShirts),
			Statuses: awaiting,
			IDField:  internal.FieldOrderNumber,
			Trailer:  TrailerLatestOrder,
		},
		{
			Name:     "NSOTD",
			StoreIDs: nonBlank(cfg.StoreNSOTD),
			Statuses: awaiting,
			IDField:  internal.FieldOrderNumber,
			Trailer:  TrailerLatestOrder,
		},
	}
}

func FindStore(cfg config.Config, name string) (Store, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range Stores(cfg) {
		if s.Name == want {
			return s, nil
		}
	}
	return Store{}, fmt.Errorf("unknown store: %s", name)
}

// Offline returns a copy of the store that reads a single feed, for runs from
// a saved orders file.
func (s Store) Offline() Store {
	s.StoreIDs = []string{"file"}
	s.Statuses = []internal.OrderStatus{internal.StatusAwaitingShipment}
	return s
}

func (s Store) slug() string {
	return strings.ToLower(s.Name)
}

func (s Store) IDPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, s.slug()+"_ids.txt")
}

func (s Store) LogPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, s.slug()+"_log.txt")
}

func (s Store) PickListPath(cfg config.Config) string {
	return filepath.Join(cfg.OutputDir, s.slug()+"_orders.txt")
}

func (s Store) XLSXPath(cfg config.Config) string {
	return filepath.Join(cfg.OutputDir, s.slug()+"_orders.xlsx")
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"picklist/internal"
)

// Source serves orders from a saved ShipStation response on disk. Every
// store id and status yields the same orders.
type Source struct {
	path string
}

type document struct {
	Orders []internal.RawOrder `json:"orders"`
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) RefreshStore(ctx context.Context, storeID string) error {
	return ctx.Err()
}

func (s *Source) FetchOrders(ctx context.Context, storeID string, status internal.OrderStatus) ([]internal.RawOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return decodeOrders(blob)
}

func decodeOrders(blob []byte) ([]internal.RawOrder, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var orders []internal.RawOrder
		if err := json.Unmarshal(trimmed, &orders); err != nil {
			return nil, fmt.Errorf("decode orders: %w", err)
		}
		return orders, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if doc.Orders == nil {
		return []internal.RawOrder{}, nil
	}
	return doc.Orders, nil
}

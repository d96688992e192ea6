package connectors

import (
	"context"

	"picklist/internal"
)

// OrderSource is where a store run pulls its orders from.
type OrderSource interface {
	// RefreshStore asks the marketplace to resync the store's orders.
	RefreshStore(ctx context.Context, storeID string) error
	FetchOrders(ctx context.Context, storeID string, status internal.OrderStatus) ([]internal.RawOrder, error)
}

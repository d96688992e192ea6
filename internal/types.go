package internal

type OrderStatus string

const (
	StatusAwaitingShipment   OrderStatus = "awaiting_shipment"
	StatusPendingFulfillment OrderStatus = "pending_fulfillment"
)

// OrderIDField selects which ShipStation field carries the channel's order id.
type OrderIDField string

const (
	FieldOrderNumber OrderIDField = "orderNumber"
	FieldOrderKey    OrderIDField = "orderKey"
)

type Party struct {
	Name    *string `json:"name"`
	City    *string `json:"city"`
	Country *string `json:"country"`
}

type RawItem struct {
	SKU      *string `json:"sku"`
	Name     string  `json:"name"`
	Quantity *int    `json:"quantity"`
}

// RawOrder is an order as returned by the ShipStation orders endpoint. Only the
// fields the pick list needs are decoded.
type RawOrder struct {
	OrderNumber *string   `json:"orderNumber"`
	OrderKey    *string   `json:"orderKey"`
	BillTo      *Party    `json:"billTo"`
	ShipTo      *Party    `json:"shipTo"`
	Items       []RawItem `json:"items"`
}

func (o RawOrder) ID(field OrderIDField) string {
	var v *string
	switch field {
	case FieldOrderKey:
		v = o.OrderKey
	default:
		v = o.OrderNumber
	}
	if v == nil {
		return ""
	}
	return *v
}

type LineItem struct {
	SKU         string
	Description string
	Quantity    int
}

type Order struct {
	ID       string
	Customer string
	City     string
	Country  string
	Items    []LineItem
}

type RunRow struct {
	ID         int
	TraceID    string
	Store      string
	StartedAt  string
	Orders     int
	NewOrders  int
	Units      int
	Unparsed   int
	OutputPath string
}

type OrderHistoryRow struct {
	TraceID  string
	Store    string
	OrderID  string
	Customer string
	Country  string
	Seen     bool
}

type Location struct {
	City    string
	Country string
	URL     string
}

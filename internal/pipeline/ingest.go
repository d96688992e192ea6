package pipeline

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"picklist/internal"
	"picklist/internal/sku"
)

var ErrMalformedOrder = errors.New("malformed order")

const logSeparator = "+----------------------------------------"

// Appender is an append-only text sink: the order log, the id store and the
// location file.
type Appender interface {
	Append(text string) error
}

type Sinks struct {
	Log       Appender
	IDs       Appender
	Locations Appender
}

type CustomerCount struct {
	Name   string
	Orders int
}

type MultiQuantity struct {
	OrderID string
	Entries []string
}

// Batch is the aggregation state of one store run.
type Batch struct {
	seen        map[string]struct{}
	ingested    map[string]struct{}
	homeCountry string
	cleaner     *sku.Cleaner
	sinks       Sinks

	newOrders *sku.Tally

	customerOrder  []string
	customerCounts map[string]int

	multiOrder []string
	multiQty   map[string][]string

	orders  int
	fresh   int
	history []internal.OrderHistoryRow
}

func NewBatch(seen map[string]struct{}, homeCountry string, cleaner *sku.Cleaner, sinks Sinks) *Batch {
	if seen == nil {
		seen = map[string]struct{}{}
	}
	if cleaner == nil {
		cleaner = sku.NewCleaner(nil)
	}
	return &Batch{
		seen:           seen,
		ingested:       map[string]struct{}{},
		homeCountry:    strings.ToUpper(homeCountry),
		cleaner:        cleaner,
		sinks:          sinks,
		newOrders:      sku.NewTally(),
		customerCounts: map[string]int{},
		multiQty:       map[string][]string{},
	}
}

// Ingest logs every order and adds the line items of orders not seen before
// to the raw-SKU tally. Writes happen as orders are processed; a failing order
// stops the batch with earlier orders already written.
func (b *Batch) Ingest(raws []internal.RawOrder, field internal.OrderIDField) error {
	for i, raw := range raws {
		order, err := b.toOrder(raw, field)
		if err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
		if err := b.ingestOrder(order); err != nil {
			return fmt.Errorf("order %s: %w", order.ID, err)
		}
	}
	return nil
}

func (b *Batch) ingestOrder(order internal.Order) error {
	_, seenBefore := b.seen[order.ID]
	_, seenThisRun := b.ingested[order.ID]
	isNew := !seenBefore && !seenThisRun

	b.orders++
	if _, ok := b.customerCounts[order.Customer]; !ok {
		b.customerOrder = append(b.customerOrder, order.Customer)
	}
	b.customerCounts[order.Customer]++

	var block strings.Builder
	block.WriteString(logSeparator + "\n")
	block.WriteString("| " + order.ID + "\n")
	block.WriteString("| " + order.Customer + "\n")
	for _, item := range order.Items {
		block.WriteString("| " + withQuantity(item.SKU, item.Quantity) + "\n")
	}
	if err := b.sinks.Log.Append(block.String()); err != nil {
		return fmt.Errorf("write order log: %w", err)
	}

	for _, item := range order.Items {
		if item.Quantity > 1 {
			if _, ok := b.multiQty[order.ID]; !ok {
				b.multiOrder = append(b.multiOrder, order.ID)
			}
			entry := order.Customer + " - " + withQuantity(item.SKU, item.Quantity)
			b.multiQty[order.ID] = append(b.multiQty[order.ID], entry)
		}
		if isNew {
			b.newOrders.Add(item.SKU, item.Quantity)
		}
	}

	if isNew && order.Country != b.homeCountry {
		if err := b.sinks.Locations.Append(locationLine(order.City, order.Country)); err != nil {
			return fmt.Errorf("write location: %w", err)
		}
	}

	if !seenThisRun {
		if err := b.sinks.IDs.Append(order.ID + ","); err != nil {
			return fmt.Errorf("write order id: %w", err)
		}
	}
	b.ingested[order.ID] = struct{}{}

	if isNew {
		b.fresh++
	}
	b.history = append(b.history, internal.OrderHistoryRow{
		OrderID:  order.ID,
		Customer: order.Customer,
		Country:  order.Country,
		Seen:     !isNew,
	})
	return nil
}

func (b *Batch) toOrder(raw internal.RawOrder, field internal.OrderIDField) (internal.Order, error) {
	id := raw.ID(field)
	if id == "" {
		return internal.Order{}, fmt.Errorf("%w: missing %s", ErrMalformedOrder, field)
	}
	if raw.BillTo == nil || raw.BillTo.Name == nil {
		return internal.Order{}, fmt.Errorf("%w: %s missing billTo.name", ErrMalformedOrder, id)
	}
	if raw.ShipTo == nil || raw.ShipTo.Country == nil {
		return internal.Order{}, fmt.Errorf("%w: %s missing shipTo.country", ErrMalformedOrder, id)
	}
	if raw.Items == nil {
		return internal.Order{}, fmt.Errorf("%w: %s missing items", ErrMalformedOrder, id)
	}

	order := internal.Order{
		ID:       id,
		Customer: *raw.BillTo.Name,
		Country:  strings.ToUpper(*raw.ShipTo.Country),
		Items:    make([]internal.LineItem, 0, len(raw.Items)),
	}
	if raw.ShipTo.City != nil {
		order.City = *raw.ShipTo.City
	}
	if order.Country != b.homeCountry && order.City == "" {
		return internal.Order{}, fmt.Errorf("%w: %s missing shipTo.city for foreign order", ErrMalformedOrder, id)
	}

	for j, item := range raw.Items {
		if item.Quantity == nil || *item.Quantity < 1 {
			return internal.Order{}, fmt.Errorf("%w: %s item %d has no positive quantity", ErrMalformedOrder, id, j)
		}
		order.Items = append(order.Items, internal.LineItem{
			SKU:         b.cleaner.Clean(item.SKU, item.Name),
			Description: item.Name,
			Quantity:    *item.Quantity,
		})
	}
	return order, nil
}

// Normalize folds the raw-SKU tally into pick-list entries.
func (b *Batch) Normalize() *sku.Cleaned {
	return sku.Normalize(b.newOrders)
}

func (b *Batch) NewOrders() *sku.Tally {
	return b.newOrders
}

// Orders counts every ingested order, seen or not.
func (b *Batch) Orders() int {
	return b.orders
}

func (b *Batch) FreshOrders() int {
	return b.fresh
}

func (b *Batch) Customers() []CustomerCount {
	out := make([]CustomerCount, 0, len(b.customerOrder))
	for _, name := range b.customerOrder {
		out = append(out, CustomerCount{Name: name, Orders: b.customerCounts[name]})
	}
	return out
}

func (b *Batch) RepeatCustomers() []CustomerCount {
	out := []CustomerCount{}
	for _, c := range b.Customers() {
		if c.Orders > 1 {
			out = append(out, c)
		}
	}
	return out
}

func (b *Batch) MultiQuantity() []MultiQuantity {
	out := make([]MultiQuantity, 0, len(b.multiOrder))
	for _, id := range b.multiOrder {
		out = append(out, MultiQuantity{OrderID: id, Entries: append([]string(nil), b.multiQty[id]...)})
	}
	return out
}

func (b *Batch) History() []internal.OrderHistoryRow {
	return append([]internal.OrderHistoryRow(nil), b.history...)
}

func withQuantity(s string, qty int) string {
	if qty > 1 {
		return s + " (" + strconv.Itoa(qty) + ")"
	}
	return s
}

func mapsURL(city, country string) string {
	return "https://www.google.com/maps/place/" + url.PathEscape(city) + ",+" + url.PathEscape(country) + "/"
}

func locationLine(city, country string) string {
	label := html.EscapeString(city + ", " + country)
	return `<h3><a href="` + html.EscapeString(mapsURL(city, country)) + `">` + label + "</a><br></h3>\n"
}

package pipeline

import (
	"errors"
	"strings"
	"testing"

	"picklist/internal"
	"picklist/internal/sku"
)

type memSink struct {
	parts []string
}

func (m *memSink) Append(text string) error {
	m.parts = append(m.parts, text)
	return nil
}

func (m *memSink) String() string {
	return strings.Join(m.parts, "")
}

type testSinks struct {
	log, ids, locations *memSink
}

func newTestBatch(seen map[string]struct{}) (*Batch, testSinks) {
	s := testSinks{log: &memSink{}, ids: &memSink{}, locations: &memSink{}}
	b := NewBatch(seen, "US", sku.NewCleaner(nil), Sinks{Log: s.log, IDs: s.ids, Locations: s.locations})
	return b, s
}

func item(sku string, qty int) internal.RawItem {
	return internal.RawItem{SKU: strp(sku), Name: "item " + sku, Quantity: intp(qty)}
}

func rawOrder(id, customer, city, country string, items ...internal.RawItem) internal.RawOrder {
	if items == nil {
		items = []internal.RawItem{}
	}
	return internal.RawOrder{
		OrderNumber: strp(id),
		OrderKey:    strp("key-" + id),
		BillTo:      &internal.Party{Name: strp(customer)},
		ShipTo:      &internal.Party{City: strp(city), Country: strp(country)},
		Items:       items,
	}
}

func TestIngestSkipsSeenOrders(t *testing.T) {
	b, sinks := newTestBatch(map[string]struct{}{"A1": {}})

	err := b.Ingest([]internal.RawOrder{
		rawOrder("A1", "Ann", "Austin", "US", item("PREM-646-MED", 1)),
		rawOrder("A2", "Bob", "Boise", "US", item("PREM-646-XL", 2)),
	}, internal.FieldOrderNumber)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.NewOrders().Keys(); len(got) != 1 || got[0] != "PREM-646-XL" {
		t.Fatalf("tally keys=%v", got)
	}
	if b.Orders() != 2 || b.FreshOrders() != 1 {
		t.Fatalf("orders=%d fresh=%d", b.Orders(), b.FreshOrders())
	}
	if sinks.ids.String() != "A1,A2," {
		t.Fatalf("ids=%q", sinks.ids.String())
	}
	if !strings.Contains(sinks.log.String(), "| A1\n| Ann\n| PREM-646-MED\n") {
		t.Fatalf("log missing seen order:\n%s", sinks.log.String())
	}
	if !strings.Contains(sinks.log.String(), "| A2\n| Bob\n| PREM-646-XL (2)\n") {
		t.Fatalf("log missing new order:\n%s", sinks.log.String())
	}

	history := b.History()
	if len(history) != 2 || !history[0].Seen || history[1].Seen {
		t.Fatalf("history=%+v", history)
	}
}

func TestIngestRepeatedIDWithinRun(t *testing.T) {
	b, sinks := newTestBatch(nil)

	order := rawOrder("X9", "Ann", "Austin", "US", item("PREM-646-MED", 1))
	if err := b.Ingest([]internal.RawOrder{order}, internal.FieldOrderNumber); err != nil {
		t.Fatal(err)
	}
	if err := b.Ingest([]internal.RawOrder{order}, internal.FieldOrderNumber); err != nil {
		t.Fatal(err)
	}

	if b.NewOrders().Qty("PREM-646-MED") != 1 {
		t.Fatalf("qty=%d", b.NewOrders().Qty("PREM-646-MED"))
	}
	if sinks.ids.String() != "X9," {
		t.Fatalf("ids=%q", sinks.ids.String())
	}
	if b.Orders() != 2 {
		t.Fatalf("orders=%d", b.Orders())
	}
}

func TestIngestUsesOrderKeyField(t *testing.T) {
	b, sinks := newTestBatch(nil)

	err := b.Ingest([]internal.RawOrder{rawOrder("5", "Ann", "Austin", "US", item("PREM-646-MED", 1))}, internal.FieldOrderKey)
	if err != nil {
		t.Fatal(err)
	}
	if sinks.ids.String() != "key-5," {
		t.Fatalf("ids=%q", sinks.ids.String())
	}
}

func TestIngestForeignLocations(t *testing.T) {
	b, sinks := newTestBatch(map[string]struct{}{"OLD": {}})

	err := b.Ingest([]internal.RawOrder{
		rawOrder("H1", "Ann", "Austin", "us", item("PREM-646-MED", 1)),
		rawOrder("F1", "Zoe", "São Paulo", "BR", item("PREM-646-MED", 1)),
		rawOrder("OLD", "Max", "Berlin", "DE", item("PREM-646-MED", 1)),
	}, internal.FieldOrderNumber)
	if err != nil {
		t.Fatal(err)
	}

	want := `<h3><a href="https://www.google.com/maps/place/S%C3%A3o%20Paulo,+BR/">São Paulo, BR</a><br></h3>` + "\n"
	if sinks.locations.String() != want {
		t.Fatalf("locations=%q", sinks.locations.String())
	}
}

func TestIngestMultiQuantityAndRepeatCustomers(t *testing.T) {
	b, _ := newTestBatch(nil)

	err := b.Ingest([]internal.RawOrder{
		rawOrder("O1", "Ann", "Austin", "US", item("PREM-646-MED", 1)),
		rawOrder("O2", "Ann", "Austin", "US", item("PREM-646-XL", 3)),
		rawOrder("O3", "Bob", "Boise", "US", item("PREM-646-MED", 2), item("MYSTERY", 1)),
	}, internal.FieldOrderNumber)
	if err != nil {
		t.Fatal(err)
	}

	repeat := b.RepeatCustomers()
	if len(repeat) != 1 || repeat[0] != (CustomerCount{Name: "Ann", Orders: 2}) {
		t.Fatalf("repeat=%+v", repeat)
	}
	multi := b.MultiQuantity()
	if len(multi) != 2 {
		t.Fatalf("multi=%+v", multi)
	}
	if multi[0].OrderID != "O2" || multi[0].Entries[0] != "Ann - PREM-646-XL (3)" {
		t.Fatalf("multi[0]=%+v", multi[0])
	}
	if multi[1].OrderID != "O3" || len(multi[1].Entries) != 1 || multi[1].Entries[0] != "Bob - PREM-646-MED (2)" {
		t.Fatalf("multi[1]=%+v", multi[1])
	}
}

func TestIngestUnitsAreConserved(t *testing.T) {
	b, _ := newTestBatch(nil)

	err := b.Ingest([]internal.RawOrder{
		rawOrder("O1", "Ann", "Austin", "US", item("PREM-646-MED", 1), item("STEX-WHT-LRG", 4)),
		rawOrder("O2", "Bob", "Boise", "US", item("PREM-646-MED", 2), item("wi_123", 1), item("NOPE-1", 5)),
	}, internal.FieldOrderNumber)
	if err != nil {
		t.Fatal(err)
	}

	units := 0
	for _, e := range b.Normalize().Entries() {
		units += e.Units()
	}
	if units != 13 || b.NewOrders().Total() != 13 {
		t.Fatalf("units=%d tally=%d", units, b.NewOrders().Total())
	}
	if b.NewOrders().Qty("item wi_123") != 1 {
		t.Fatalf("placeholder sku should fall back to description: %v", b.NewOrders().Keys())
	}
}

func TestIngestMalformedOrders(t *testing.T) {
	tests := []struct {
		name  string
		order internal.RawOrder
	}{
		{"missing id", internal.RawOrder{BillTo: &internal.Party{Name: strp("A")}, ShipTo: &internal.Party{Country: strp("US")}, Items: []internal.RawItem{}}},
		{"missing billTo", internal.RawOrder{OrderNumber: strp("1"), ShipTo: &internal.Party{Country: strp("US")}, Items: []internal.RawItem{}}},
		{"missing country", internal.RawOrder{OrderNumber: strp("1"), BillTo: &internal.Party{Name: strp("A")}, ShipTo: &internal.Party{}, Items: []internal.RawItem{}}},
		{"missing items", internal.RawOrder{OrderNumber: strp("1"), BillTo: &internal.Party{Name: strp("A")}, ShipTo: &internal.Party{Country: strp("US")}}},
		{"zero quantity", rawOrder("1", "A", "Austin", "US", item("PREM-646-MED", 0))},
		{"foreign without city", internal.RawOrder{OrderNumber: strp("1"), BillTo: &internal.Party{Name: strp("A")}, ShipTo: &internal.Party{Country: strp("CA")}, Items: []internal.RawItem{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sinks := newTestBatch(nil)
			good := rawOrder("G1", "Ann", "Austin", "US", item("PREM-646-MED", 1))

			err := b.Ingest([]internal.RawOrder{good, tt.order}, internal.FieldOrderNumber)
			if !errors.Is(err, ErrMalformedOrder) {
				t.Fatalf("err=%v", err)
			}
			if sinks.ids.String() != "G1," {
				t.Fatalf("earlier order should stay written, ids=%q", sinks.ids.String())
			}
		})
	}
}

func TestIngestEmptyItems(t *testing.T) {
	b, sinks := newTestBatch(nil)

	if err := b.Ingest([]internal.RawOrder{rawOrder("E1", "Ann", "Austin", "US")}, internal.FieldOrderNumber); err != nil {
		t.Fatal(err)
	}
	if b.NewOrders().Len() != 0 || sinks.ids.String() != "E1," {
		t.Fatalf("tally=%d ids=%q", b.NewOrders().Len(), sinks.ids.String())
	}
}

func strp(v string) *string { return &v }

func intp(v int) *int { return &v }

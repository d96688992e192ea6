package sku

// Tally accumulates quantities per raw SKU and remembers first-seen order so
// that normalization is deterministic.
type Tally struct {
	keys []string
	qty  map[string]int
}

func NewTally() *Tally {
	return &Tally{qty: map[string]int{}}
}

func (t *Tally) Add(sku string, n int) {
	if _, ok := t.qty[sku]; !ok {
		t.keys = append(t.keys, sku)
	}
	t.qty[sku] += n
}

func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Tally) Qty(sku string) int {
	return t.qty[sku]
}

func (t *Tally) Len() int {
	return len(t.keys)
}

func (t *Tally) Total() int {
	total := 0
	for _, n := range t.qty {
		total += n
	}
	return total
}

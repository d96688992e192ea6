package sku

import "strings"

type Canonical struct {
	BrandStyle string
	Size       string
}

// Parse maps a cleaned SKU to its brand-style and size. ok is false when no
// rule accepts the brand code and token count.
func Parse(raw string) (Canonical, bool) {
	tokens := strings.Split(raw, delimiter)
	rule, ok := registry[tokens[0]]
	if !ok {
		return Canonical{}, false
	}
	l, ok := rule.layoutFor(tokens)
	if !ok {
		return Canonical{}, false
	}

	f := make(fields, len(tokens))
	for i, name := range l.names {
		f[name] = tokens[i]
	}
	if l.rewrite != nil {
		l.rewrite(f)
	}
	applyCorrections(rule.Family, len(tokens), f)

	return Canonical{BrandStyle: l.compose(f), Size: NormalizeSize(f["size"])}, true
}

type EntryKind int

const (
	KindParsed EntryKind = iota
	KindUnparsed
)

func (k EntryKind) String() string {
	if k == KindUnparsed {
		return "unparsed"
	}
	return "parsed"
}

type SizeQty struct {
	Size string
	Qty  int
}

// Entry is one pick-list key. Parsed entries carry a size list; unparsed
// entries are a raw SKU with a single quantity.
type Entry struct {
	Kind  EntryKind
	Key   string
	Sizes []SizeQty
	Qty   int
}

func (e Entry) Units() int {
	if e.Kind == KindUnparsed {
		return e.Qty
	}
	total := 0
	for _, s := range e.Sizes {
		total += s.Qty
	}
	return total
}

type entryKey struct {
	kind EntryKind
	key  string
}

// Cleaned is the normalized aggregation in first-seen order.
type Cleaned struct {
	entries []*Entry
	index   map[entryKey]*Entry
}

func newCleaned() *Cleaned {
	return &Cleaned{index: map[entryKey]*Entry{}}
}

func (c *Cleaned) addParsed(brandStyle string, sq SizeQty) {
	k := entryKey{kind: KindParsed, key: brandStyle}
	if e, ok := c.index[k]; ok {
		e.Sizes = append(e.Sizes, sq)
		return
	}
	e := &Entry{Kind: KindParsed, Key: brandStyle, Sizes: []SizeQty{sq}}
	c.index[k] = e
	c.entries = append(c.entries, e)
}

func (c *Cleaned) addUnparsed(raw string, qty int) {
	k := entryKey{kind: KindUnparsed, key: raw}
	if e, ok := c.index[k]; ok {
		e.Qty = qty
		return
	}
	e := &Entry{Kind: KindUnparsed, Key: raw, Qty: qty}
	c.index[k] = e
	c.entries = append(c.entries, e)
}

// Entries returns copies of all entries; callers may sort them freely.
func (c *Cleaned) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		cp := *e
		cp.Sizes = append([]SizeQty(nil), e.Sizes...)
		out = append(out, cp)
	}
	return out
}

func (c *Cleaned) Lookup(kind EntryKind, key string) (Entry, bool) {
	e, ok := c.index[entryKey{kind: kind, key: key}]
	if !ok {
		return Entry{}, false
	}
	cp := *e
	cp.Sizes = append([]SizeQty(nil), e.Sizes...)
	return cp, true
}

func (c *Cleaned) Len() int {
	return len(c.entries)
}

// Unparsed lists the raw SKUs no rule accepted.
func (c *Cleaned) Unparsed() []string {
	out := []string{}
	for _, e := range c.entries {
		if e.Kind == KindUnparsed {
			out = append(out, e.Key)
		}
	}
	return out
}

// Normalize folds a raw-SKU tally into pick-list entries. It does not modify
// the tally.
func Normalize(t *Tally) *Cleaned {
	out := newCleaned()
	for _, raw := range t.keys {
		qty := t.qty[raw]
		canon, ok := Parse(raw)
		if !ok {
			out.addUnparsed(raw, qty)
			continue
		}
		out.addParsed(canon.BrandStyle, SizeQty{Size: canon.Size, Qty: qty})
	}
	return out
}

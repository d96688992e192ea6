package sku

import "strings"

// placeholderPrefix marks SKUs generated by a channel integration rather than
// entered by us; the item description is used instead.
const placeholderPrefix = "wi_"

// obsoleteSuffixes are tried in order; only the first match is stripped.
var obsoleteSuffixes = []string{"-SL", "-SLL", "-D", "-2"}

type Cleaner struct {
	remap map[string]string
}

func NewCleaner(remap map[string]string) *Cleaner {
	if remap == nil {
		remap = map[string]string{}
	}
	return &Cleaner{remap: remap}
}

// Clean returns the SKU used for logging and aggregation.
func (c *Cleaner) Clean(raw *string, description string) string {
	if raw == nil || *raw == "" {
		return description
	}
	s := *raw
	if mapped, ok := c.remap[s]; ok {
		return mapped
	}
	if strings.HasPrefix(s, placeholderPrefix) {
		return description
	}
	for _, suffix := range obsoleteSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

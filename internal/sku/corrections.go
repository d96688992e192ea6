package sku

// Correction patches a known bad SKU entry. When every field in When matches,
// fields in Copy take the value of their source field, then fields in Set
// take literal values. Tokens limits the correction to one layout width.
type Correction struct {
	Family string
	Tokens int
	When   map[string]string
	Copy   map[string]string
	Set    map[string]string
	Note   string
}

var Corrections = []Correction{
	{
		Family: "RODEO",
		Tokens: 4,
		When:   map[string]string{"color": "SS2115"},
		Copy:   map[string]string{"color": "style"},
		Set:    map[string]string{"style": "SS-2145"},
		Note:   "SS-2115 was entered for SS-2145; the color sits in the style slot",
	},
	{
		Family: "RODEO",
		Tokens: 5,
		When:   map[string]string{"line": "HFK700"},
		Set:    map[string]string{"line": "HFK-700"},
		Note:   "HFK lines are listed hyphenated in the warehouse",
	},
	{
		Family: "RODEO",
		Tokens: 5,
		When:   map[string]string{"line": "HFK200"},
		Set:    map[string]string{"line": "HFK-200"},
		Note:   "HFK lines are listed hyphenated in the warehouse",
	},
	{
		Family: "CASUAL_COUNTRY",
		Tokens: 4,
		When:   map[string]string{"style": "3065"},
		Set:    map[string]string{"style": "SOLID-3065"},
		Note:   "CAS-NAV-3065-MED is the solid 3065 shirt",
	},
	{
		Family: "ITALIAN",
		Tokens: 4,
		When:   map[string]string{"brand": "BARA", "style": "B339", "color": "WHT/BLK"},
		Set:    map[string]string{"color": "SIL"},
		Note:   "BARA-B339-WHT/BLK should be BARA-B339-SIL",
	},
	{
		Family: "ITALIAN",
		Tokens: 4,
		When:   map[string]string{"brand": "BARA", "color": "B339", "style": "WHT/BLK"},
		Set:    map[string]string{"style": "B339", "color": "SIL"},
		Note:   "BARA-B339-WHT/BLK listed style first; same item as BARA-B339-SIL",
	},
}

func (c Correction) applies(family string, tokens int, f fields) bool {
	if c.Family != family {
		return false
	}
	if c.Tokens != 0 && c.Tokens != tokens {
		return false
	}
	for name, want := range c.When {
		got, ok := f[name]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func (c Correction) apply(f fields) {
	copied := make(map[string]string, len(c.Copy))
	for dst, src := range c.Copy {
		copied[dst] = f[src]
	}
	for dst, v := range copied {
		f[dst] = v
	}
	for name, v := range c.Set {
		f[name] = v
	}
}

func applyCorrections(family string, tokens int, f fields) {
	for _, c := range Corrections {
		if c.applies(family, tokens, f) {
			c.apply(f)
		}
	}
}

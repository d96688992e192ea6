package sku

import "strings"

const delimiter = "-"

// fields holds the named tokens of one SKU. Every layout names its last token
// "size".
type fields map[string]string

type layout struct {
	names   []string
	match   func(tokens []string) bool
	rewrite func(f fields)
	compose func(f fields) string
}

// Rule describes one brand family: the brand codes that select it and the
// token layouts it understands, keyed implicitly by token count.
type Rule struct {
	Family  string
	Codes   []string
	layouts []layout
}

func (r Rule) layoutFor(tokens []string) (layout, bool) {
	for _, l := range r.layouts {
		if len(l.names) != len(tokens) {
			continue
		}
		if l.match != nil && !l.match(tokens) {
			continue
		}
		return l, true
	}
	return layout{}, false
}

// TokenCounts lists the token counts the rule accepts.
func (r Rule) TokenCounts() []int {
	seen := map[int]bool{}
	out := []int{}
	for _, l := range r.layouts {
		if !seen[len(l.names)] {
			seen[len(l.names)] = true
			out = append(out, len(l.names))
		}
	}
	return out
}

func join(f fields, names ...string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, f[n])
	}
	return strings.Join(parts, delimiter)
}

func composeOf(names ...string) func(f fields) string {
	return func(f fields) string { return join(f, names...) }
}

// stexShelf prefixes STEX colors with their shelf number so the pick list
// follows the warehouse layout.
var stexShelf = map[string]string{
	"CHAR": "STEX1",
	"NAVY": "STEX2",
	"BLK":  "STEX3",
	"WHT":  "STEX4",
	"KAK":  "STEX5",
	"RED":  "STEX6",
	"GRN":  "STEX7",
	"GREY": "STEX8",
	"BRIT": "STEX9",
}

var hfkLines = map[string]bool{"HFK700": true, "HFK200": true}

var Rules = []Rule{
	{
		Family: "PREMIER",
		Codes:  []string{"PREM"},
		layouts: []layout{
			{
				// PREM-646-MED, PREM-631NEW-LRG
				names: []string{"brand", "style", "size"},
				rewrite: func(f fields) {
					if strings.HasSuffix(f["style"], "NEW") && len(f["style"]) >= 3 {
						f["style"] = f["style"][:3]
					}
				},
				compose: composeOf("brand", "style"),
			},
			{
				// PREM-TS201-LS-SML -> PREM-TS-LS-201
				names: []string{"brand", "tee", "sleeve", "size"},
				match: func(t []string) bool { return strings.HasPrefix(t[1], "TS") },
				compose: func(f fields) string {
					return strings.Join([]string{f["brand"], "TS", f["sleeve"], f["tee"][2:]}, delimiter)
				},
			},
			{
				// PREM-618-RED-MED, PREM-SS-101-LRG
				names:   []string{"brand", "style", "variant", "size"},
				compose: composeOf("brand", "style", "variant"),
			},
		},
	},
	{
		Family: "STEX",
		Codes:  []string{"STEX", "STX"},
		layouts: []layout{
			{
				names: []string{"brand", "color", "size"},
				rewrite: func(f fields) {
					if shelf, ok := stexShelf[f["color"]]; ok {
						f["brand"] = shelf
					}
				},
				compose: composeOf("brand", "color"),
			},
		},
	},
	{
		Family: "SHORTS",
		Codes:  []string{"WICK", "WEAR"},
		layouts: []layout{
			{names: []string{"brand", "color", "size"}, compose: composeOf("brand", "color")},
		},
	},
	{
		Family: "VESE",
		Codes:  []string{"VESE", "AMDS"},
		layouts: []layout{
			// AMDS-RED-01-XL
			{names: []string{"brand", "color", "style", "size"}, compose: composeOf("brand", "style", "color")},
		},
	},
	{
		Family: "CASUAL_COUNTRY",
		Codes:  []string{"CAS", "CASS"},
		layouts: []layout{
			// CAS-PURP-01-LRG
			{names: []string{"brand", "color", "style", "size"}, compose: composeOf("brand", "style", "color")},
			// CAS-SS-45-WHT-SML
			{names: []string{"brand", "sleeve", "style", "color", "size"}, compose: composeOf("brand", "sleeve", "style", "color")},
		},
	},
	{
		Family: "RODEO",
		Codes:  []string{"ROD", "RODEO", "ACE"},
		layouts: []layout{
			// RODEO-524-XL
			{names: []string{"brand", "style", "size"}, compose: composeOf("brand", "style")},
			{
				// RODEO-BEIG-533-MED, ROD-WOM-506-XL
				names:   []string{"brand", "color", "style", "size"},
				rewrite: rewriteRodeoStyle,
				compose: composeOf("brand", "style", "color"),
			},
			{
				// ACE-HFK700-10-NVYBLU-3XL
				names:   []string{"brand", "line", "style", "color", "size"},
				match:   func(t []string) bool { return hfkLines[t[1]] },
				compose: composeOf("brand", "line", "style", "color"),
			},
			{
				// ACE-WOM-BLU-ES5110-SML
				names:   []string{"brand", "line", "color", "style", "size"},
				compose: composeOf("brand", "line", "style", "color"),
			},
		},
	},
	{
		Family: "BUCKEROO",
		Codes:  []string{"BUCK"},
		layouts: []layout{
			// BUCK-WS6-BEGE/BRWN-LRG
			{names: []string{"brand", "style", "color", "size"}, compose: composeOf("brand", "style", "color")},
			// BUCK-WS100-01-BLACK/BLUE-SML
			{names: []string{"brand", "style", "number", "color", "size"}, compose: composeOf("brand", "style", "number", "color")},
			// BUCK-WS200-SS-17-BURGBLK-XL, sleeve is not part of the pick key
			{names: []string{"brand", "style", "sleeve", "number", "color", "size"}, compose: composeOf("brand", "style", "number", "color")},
		},
	},
	{
		Family: "DENIM",
		Codes:  []string{"VIC", "VICT", "ENVY", "SOCI"},
		layouts: []layout{
			// VICT-DK211-XL
			{names: []string{"brand", "style", "size"}, compose: composeOf("brand", "style")},
			// VICT-BLACK-1082-38X32
			{names: []string{"brand", "color", "style", "size"}, compose: composeOf("brand", "style", "color")},
			// ENVY-LACEUP-WHT-41028-SML
			{names: []string{"brand", "lace", "color", "style", "size"}, compose: composeOf("brand", "style", "lace", "color")},
			// VIC-100-DENIM-JACKET-DARK-INDIGO-XL
			{
				names:   []string{"brand", "style", "denim", "jacket", "color", "shade", "size"},
				compose: composeOf("brand", "style", "denim", "jacket", "color", "shade"),
			},
		},
	},
	{
		Family: "ITALIAN",
		Codes:  []string{"VASS", "BENZ", "GAV", "STEELO", "BARA"},
		layouts: []layout{
			// VASS-LEOP-VS135-SML
			{names: []string{"brand", "color", "style", "size"}, compose: composeOf("brand", "style", "color")},
		},
	},
	{
		Family: "CANYON",
		Codes:  []string{"CAN", "CANLADY"},
		layouts: []layout{
			{names: []string{"brand", "style", "color", "size"}, compose: composeOf("brand", "style", "color")},
		},
	},
}

// rewriteRodeoStyle applies the structural fixes shared by four-token Rodeo
// and Ace SKUs, in order.
func rewriteRodeoStyle(f fields) {
	style := f["style"]
	// RODEO-BRWN-PS400461N-MED
	style = strings.TrimPrefix(style, "PS400")
	// RODEO-RED-438BT -> BT438
	if strings.HasSuffix(style, "BT") && len(style) >= 3 {
		style = "BT" + style[:3]
	}
	// ES5110 -> ES-5110
	if strings.HasPrefix(style, "ES") {
		style = "ES" + delimiter + style[2:]
	}
	f["style"] = style
}

var registry = buildRegistry(Rules)

func buildRegistry(rules []Rule) map[string]Rule {
	out := make(map[string]Rule, len(rules)*2)
	for _, r := range rules {
		for _, code := range r.Codes {
			out[code] = r
		}
	}
	return out
}

// RuleFor returns the rule registered for a brand code.
func RuleFor(code string) (Rule, bool) {
	r, ok := registry[code]
	return r, ok
}

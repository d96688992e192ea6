package sku

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownSize = errors.New("size has no rank")

// sizeRank orders sizes by their first two characters. LA (LARG) and LR (LRG)
// are kept as separate ranks.
var sizeRank = map[string]int{
	"XS": 0,
	"SM": 1,
	"ME": 2,
	"LA": 3,
	"LR": 4,
	"XL": 5,
	"2X": 6,
	"3X": 7,
	"4X": 8,
	"5X": 9,
	"6X": 10,
	"7X": 11,
	"8X": 12,
	"30": 13,
	"32": 14,
	"34": 15,
	"36": 16,
	"38": 17,
	"40": 18,
	"42": 19,
	"44": 20,
	"46": 21,
	"48": 22,
	"50": 23,
	"52": 24,
	"54": 25,
}

func NormalizeSize(size string) string {
	if size == "XXL" {
		return "2XL"
	}
	return size
}

func Rank(size string) (int, error) {
	if len(size) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	rank, ok := sizeRank[size[:2]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	return rank, nil
}

// SortSizes orders sizes by rank in place. Equal ranks keep their input order.
func SortSizes(sizes []SizeQty) error {
	ranks := make(map[string]int, len(sizes))
	for _, s := range sizes {
		r, err := Rank(s.Size)
		if err != nil {
			return err
		}
		ranks[s.Size] = r
	}
	sort.SliceStable(sizes, func(i, j int) bool { return ranks[sizes[i].Size] < ranks[sizes[j].Size] })
	return nil
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"picklist/internal/sku"
)

// ExportPickListToXLSX writes the cleaned entries as a workbook with one row per
// size, keys in pick-list order.
func ExportPickListToXLSX(cleaned *sku.Cleaned, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"brand_style", "kind", "size", "qty"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	entries := cleaned.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	r := 1
	set := func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, value)
	}
	for _, e := range entries {
		if e.Kind == sku.KindUnparsed {
			r++
			set(1, e.Key)
			set(2, e.Kind.String())
			set(3, "")
			set(4, e.Qty)
			continue
		}
		if err := sku.SortSizes(e.Sizes); err != nil {
			return fmt.Errorf("%s: %w", e.Key, err)
		}
		for _, s := range e.Sizes {
			r++
			set(1, e.Key)
			set(2, e.Kind.String())
			set(3, s.Size)
			set(4, s.Qty)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

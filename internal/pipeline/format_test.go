package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picklist/internal/sku"
)

func cleanedOf(pairs ...any) *sku.Cleaned {
	tally := sku.NewTally()
	for i := 0; i+1 < len(pairs); i += 2 {
		tally.Add(pairs[i].(string), pairs[i+1].(int))
	}
	return sku.Normalize(tally)
}

func TestRenderSizesInRankOrder(t *testing.T) {
	lines, err := RenderPickList(cleanedOf("PREM-646-XL", 2, "PREM-646-LRG", 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "PREM-646 -> LRG, XL (2)\n" {
		t.Fatalf("lines=%q", lines)
	}
}

func TestRenderPadsBrandKeys(t *testing.T) {
	lines, err := RenderPickList(cleanedOf("STEX-WHT-LRG", 1))
	if err != nil {
		t.Fatal(err)
	}
	if lines[0] != "STEX4-WHT     -> LRG\n" {
		t.Fatalf("line=%q", lines[0])
	}

	lines, err = RenderPickList(cleanedOf("BUCK-WS6-BEGE/BRWN-LRG", 1))
	if err != nil {
		t.Fatal(err)
	}
	want := "BUCK-WS6-BEGE/BRWN" + strings.Repeat(" ", 33-len("BUCK-WS6-BEGE/BRWN")) + " -> LRG\n"
	if lines[0] != want {
		t.Fatalf("line=%q", lines[0])
	}
}

func TestRenderGroupsByPrefix(t *testing.T) {
	lines, err := RenderPickList(cleanedOf(
		"PREM-646-MED", 1,
		"PREM-618-RED-MED", 1,
		"NOPE-1", 3,
		"MYSTERY", 1,
	))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"MYSTERY\n\n",
		"NOPE-1 ... (3)\n\n",
		"PREM-618-RED -> MED\n",
		"PREM-646 -> MED\n",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines=%q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d=%q want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderUnknownSize(t *testing.T) {
	_, err := RenderPickList(cleanedOf("PREM-646-HUGE", 1))
	if !errors.Is(err, sku.ErrUnknownSize) {
		t.Fatalf("err=%v", err)
	}
}

func TestRenderEmpty(t *testing.T) {
	lines, err := RenderPickList(cleanedOf())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Fatalf("lines=%q", lines)
	}
}

func TestWritePickListReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ebay_orders.txt")
	if err := WritePickList(path, []string{"old\n"}); err != nil {
		t.Fatal(err)
	}
	if err := WritePickList(path, []string{"A\n\n", "B\n"}); err != nil {
		t.Fatal(err)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "A\n\nB\n" {
		t.Fatalf("file=%q", string(blob))
	}
}

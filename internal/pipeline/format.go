package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"picklist/internal/sku"
)

const (
	arrow         = " -> "
	sizeSeparator = ", "
	groupPrefix   = 4
)

// keyPadding left-justifies keys of the listed brand prefixes so their size
// columns line up. First matching prefix wins.
var keyPadding = []struct {
	prefix string
	width  int
}{
	{"BUCK", 33},
	{"ACE", 23},
	{"CAS", 23},
	{"STEX", 14},
	{"BARA", 21},
	{"VASS", 23},
}

// RenderPickList lays out the cleaned entries as pick-list lines, each ending
// in a newline, sorted and grouped by brand.
func RenderPickList(cleaned *sku.Cleaned) ([]string, error) {
	lines := make([]string, 0, cleaned.Len())
	for _, e := range cleaned.Entries() {
		line, err := renderEntry(e)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	sort.Strings(lines)
	for i := 0; i+1 < len(lines); i++ {
		if prefix(lines[i+1]) != prefix(lines[i]) {
			lines[i] += "\n"
		}
	}
	return lines, nil
}

func renderEntry(e sku.Entry) (string, error) {
	if e.Kind == sku.KindUnparsed {
		if e.Qty > 1 {
			return e.Key + " ... (" + strconv.Itoa(e.Qty) + ")\n", nil
		}
		return e.Key + "\n", nil
	}

	if err := sku.SortSizes(e.Sizes); err != nil {
		return "", fmt.Errorf("%s: %w", e.Key, err)
	}
	sizes := make([]string, 0, len(e.Sizes))
	for _, s := range e.Sizes {
		sizes = append(sizes, withQuantity(s.Size, s.Qty))
	}
	return padKey(e.Key) + arrow + strings.Join(sizes, sizeSeparator) + "\n", nil
}

func padKey(key string) string {
	for _, p := range keyPadding {
		if strings.HasPrefix(key, p.prefix) {
			return fmt.Sprintf("%-*s", p.width, key)
		}
	}
	return key
}

func prefix(line string) string {
	if len(line) < groupPrefix {
		return line
	}
	return line[:groupPrefix]
}

// WritePickList replaces the pick-list file with the rendered lines.
func WritePickList(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "")), 0o644)
}

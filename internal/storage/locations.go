package storage

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"picklist/internal"
)

// ReadLocations parses the foreign-order location file back into its
// destinations, in file order.
func ReadLocations(path string) ([]internal.Location, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	out := []internal.Location{}
	doc.Find("h3 a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		label := strings.TrimSpace(a.Text())
		loc := internal.Location{URL: href, City: label}
		if idx := strings.LastIndex(label, ", "); idx >= 0 {
			loc.City = label[:idx]
			loc.Country = label[idx+2:]
		}
		out = append(out, loc)
	})
	return out, nil
}

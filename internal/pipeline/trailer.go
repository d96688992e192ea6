package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"picklist/internal"
)

const (
	trailerRule  = "\n------------------------------------------"
	emptySection = "\tnone\n"
)

// SummaryTrailer closes the pick list with the order count, repeat customers
// and orders holding more than one of an item.
func SummaryTrailer(name string, orders int, b *Batch) string {
	var sb strings.Builder
	sb.WriteString(trailerRule)
	sb.WriteString("\n\n" + name + ": " + strconv.Itoa(orders) + " ORDERS\n")

	sb.WriteString("\nCUSTOMERS WITH MORE THAN ONE ORDER:\n\n")
	repeat := b.RepeatCustomers()
	for _, c := range repeat {
		sb.WriteString("\t" + c.Name + " - " + strconv.Itoa(c.Orders) + "\n")
	}
	if len(repeat) == 0 {
		sb.WriteString(emptySection)
	}

	sb.WriteString("\nORDERS WITH MORE THAN ONE ITEM QUANTITY:\n\n")
	multi := b.MultiQuantity()
	for _, m := range multi {
		for _, entry := range m.Entries {
			sb.WriteString("\t" + m.OrderID + " - " + entry + "\n")
		}
	}
	if len(multi) == 0 {
		sb.WriteString(emptySection)
	}
	return sb.String()
}

// LatestOrderTrailer closes the pick list with the newest order so the next
// run can be checked against it.
func LatestOrderTrailer(name, latest string) string {
	return trailerRule + "\n\n" + name + ":  " + latest
}

// LatestOrder finds the order with the highest numeric orderNumber. It returns
// that order's id in the channel's id field, or the number itself when the
// channel uses orderNumber as its id.
func LatestOrder(raws []internal.RawOrder, field internal.OrderIDField) (string, error) {
	best := -1
	latest := ""
	for i, raw := range raws {
		if raw.OrderNumber == nil {
			return "", fmt.Errorf("order %d: %w: missing orderNumber", i, ErrMalformedOrder)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(*raw.OrderNumber, "#"))
		if err != nil {
			return "", fmt.Errorf("order %d: %w: orderNumber %q is not numeric", i, ErrMalformedOrder, *raw.OrderNumber)
		}
		if n > best {
			best = n
			if field == internal.FieldOrderNumber {
				latest = strconv.Itoa(n)
			} else {
				latest = raw.ID(field)
			}
		}
	}
	if best < 0 {
		return "0", nil
	}
	return latest, nil
}

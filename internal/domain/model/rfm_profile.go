package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// RFM table column names.
const (
	RecencyColumn   = "Recency"
	FrequencyColumn = "Frequency"
	MonetaryColumn  = "Monetary"
)

// CustomerRFMProfile is the Recency/Frequency/Monetary summary of one customer.
// Recency is whole days between the snapshot and the latest transaction and
// may be negative when the snapshot precedes it.
type CustomerRFMProfile struct {
	Monetary   decimal.Decimal
	CustomerID string
	Recency    int
	Frequency  int
}

// RFMTable renders profiles as a table keyed by the given customer column.
func RFMTable(customerColumn string, profiles []CustomerRFMProfile) *Table {
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		rows[i] = []string{
			p.CustomerID,
			strconv.Itoa(p.Recency),
			strconv.Itoa(p.Frequency),
			p.Monetary.String(),
		}
	}
	tbl, _ := NewTable([]string{customerColumn, RecencyColumn, FrequencyColumn, MonetaryColumn}, rows)
	return tbl
}

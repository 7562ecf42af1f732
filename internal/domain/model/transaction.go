package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default column names of the transaction export.
const (
	DefaultCustomerColumn    = "CustomerId"
	DefaultTransactionColumn = "TransactionId"
	DefaultTimestampColumn   = "TransactionStartTime"
	DefaultValueColumn       = "Value"
)

// Transaction is a single monetary event attributed to a customer.
type Transaction struct {
	Timestamp     time.Time
	Value         decimal.Decimal
	CustomerID    string
	TransactionID string
}

// TransactionSchema names the four columns a transaction table must carry.
type TransactionSchema struct {
	CustomerColumn    string
	TransactionColumn string
	TimestampColumn   string
	ValueColumn       string
}

// DefaultTransactionSchema returns the schema of the standard transaction export.
func DefaultTransactionSchema() TransactionSchema {
	return TransactionSchema{
		CustomerColumn:    DefaultCustomerColumn,
		TransactionColumn: DefaultTransactionColumn,
		TimestampColumn:   DefaultTimestampColumn,
		ValueColumn:       DefaultValueColumn,
	}
}

// WithValueColumn returns a copy of the schema that reads monetary values from
// the named column. An empty name leaves the schema unchanged.
func (s TransactionSchema) WithValueColumn(name string) TransactionSchema {
	if name != "" {
		s.ValueColumn = name
	}
	return s
}

// Columns returns the required column names in validation order.
func (s TransactionSchema) Columns() []string {
	return []string{s.CustomerColumn, s.TransactionColumn, s.TimestampColumn, s.ValueColumn}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats found in transaction exports.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp format")
}

// ParseTransactions converts a table into transactions. All schema columns are
// checked before any row is read, so a missing column is always reported as a
// *MissingColumnError rather than a parse failure.
func ParseTransactions(t *Table, schema TransactionSchema) ([]Transaction, error) {
	if err := t.RequireColumns(schema.Columns()...); err != nil {
		return nil, err
	}

	customerIdx, _ := t.ColumnIndex(schema.CustomerColumn)
	txIdx, _ := t.ColumnIndex(schema.TransactionColumn)
	tsIdx, _ := t.ColumnIndex(schema.TimestampColumn)
	valueIdx, _ := t.ColumnIndex(schema.ValueColumn)

	txns := make([]Transaction, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		ts, err := ParseTimestamp(row[tsIdx])
		if err != nil {
			return nil, &ParseError{Row: i + 1, Column: schema.TimestampColumn, Value: row[tsIdx], Err: err}
		}

		value, err := decimal.NewFromString(strings.TrimSpace(row[valueIdx]))
		if err != nil {
			return nil, &ParseError{Row: i + 1, Column: schema.ValueColumn, Value: row[valueIdx], Err: err}
		}

		txns = append(txns, Transaction{
			CustomerID:    row[customerIdx],
			TransactionID: row[txIdx],
			Timestamp:     ts,
			Value:         value,
		})
	}

	return txns, nil
}

package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

const day = 24 * time.Hour

// RFMExtractor derives one Recency/Frequency/Monetary profile per customer.
type RFMExtractor struct{}

// NewRFMExtractor creates a new RFMExtractor.
func NewRFMExtractor() *RFMExtractor {
	return &RFMExtractor{}
}

// Extract groups transactions by customer. Profiles are returned in order of
// each customer's first appearance. Empty input yields an empty, non-nil slice.
func (e *RFMExtractor) Extract(txns []model.Transaction, snapshot time.Time) []model.CustomerRFMProfile {
	type acc struct {
		latest   time.Time
		monetary decimal.Decimal
		count    int
	}

	order := make([]string, 0)
	byCustomer := make(map[string]*acc)

	for _, tx := range txns {
		a, ok := byCustomer[tx.CustomerID]
		if !ok {
			a = &acc{latest: tx.Timestamp, monetary: decimal.Zero}
			byCustomer[tx.CustomerID] = a
			order = append(order, tx.CustomerID)
		}
		if tx.Timestamp.After(a.latest) {
			a.latest = tx.Timestamp
		}
		a.monetary = a.monetary.Add(tx.Value)
		a.count++
	}

	profiles := make([]model.CustomerRFMProfile, 0, len(order))
	for _, id := range order {
		a := byCustomer[id]
		profiles = append(profiles, model.CustomerRFMProfile{
			CustomerID: id,
			Recency:    wholeDays(snapshot.Sub(a.latest)),
			Frequency:  a.count,
			Monetary:   a.monetary,
		})
	}

	return profiles
}

// ExtractTable validates the schema columns, parses the table and extracts
// profiles. The transactions are returned so callers can report counts.
func (e *RFMExtractor) ExtractTable(t *model.Table, schema model.TransactionSchema, snapshot time.Time) ([]model.CustomerRFMProfile, []model.Transaction, error) {
	txns, err := model.ParseTransactions(t, schema)
	if err != nil {
		return nil, nil, err
	}
	return e.Extract(txns, snapshot), txns, nil
}

// wholeDays floors a duration to whole days, rounding toward negative infinity.
func wholeDays(d time.Duration) int {
	q := d / day
	if d%day != 0 && d < 0 {
		q--
	}
	return int(q)
}

// LatestTimestamp returns the most recent transaction time. ok is false for
// empty input.
func LatestTimestamp(txns []model.Transaction) (latest time.Time, ok bool) {
	for i, tx := range txns {
		if i == 0 || tx.Timestamp.After(latest) {
			latest = tx.Timestamp
		}
	}
	return latest, len(txns) > 0
}

// SnapshotAfterLatest returns the latest transaction time plus offset. An
// offset of zero reproduces a snapshot taken at the last observed transaction;
// one day is the usual choice so that the most recent customers get Recency 1.
func SnapshotAfterLatest(txns []model.Transaction, offset time.Duration) (time.Time, error) {
	latest, ok := LatestTimestamp(txns)
	if !ok {
		return time.Time{}, model.ErrEmptyInput
	}
	return latest.Add(offset), nil
}

package service

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

// Aggregate and time feature column names.
const (
	TotalAmountColumn      = "TotalAmount"
	AvgAmountColumn        = "AvgAmount"
	TransactionCountColumn = "TransactionCount"
	StdAmountColumn        = "StdAmount"

	TransactionHourColumn  = "TransactionHour"
	TransactionDayColumn   = "TransactionDay"
	TransactionMonthColumn = "TransactionMonth"
	TransactionYearColumn  = "TransactionYear"
)

// CustomerAggregate summarises a customer's transaction values.
// StdAmount is the sample standard deviation and is NaN for a single transaction.
type CustomerAggregate struct {
	TotalAmount      decimal.Decimal
	AvgAmount        decimal.Decimal
	CustomerID       string
	StdAmount        float64
	TransactionCount int
}

// AggregateFeatures computes per-customer totals in order of first appearance.
func AggregateFeatures(txns []model.Transaction) []CustomerAggregate {
	order := make([]string, 0)
	values := make(map[string][]decimal.Decimal)
	for _, tx := range txns {
		if _, ok := values[tx.CustomerID]; !ok {
			order = append(order, tx.CustomerID)
		}
		values[tx.CustomerID] = append(values[tx.CustomerID], tx.Value)
	}

	aggs := make([]CustomerAggregate, 0, len(order))
	for _, id := range order {
		vs := values[id]

		total := decimal.Sum(vs[0], vs[1:]...)
		count := len(vs)

		std := math.NaN()
		if count > 1 {
			fs := make([]float64, count)
			for i, v := range vs {
				fs[i] = v.InexactFloat64()
			}
			std = stat.StdDev(fs, nil)
		}

		aggs = append(aggs, CustomerAggregate{
			CustomerID:       id,
			TotalAmount:      total,
			AvgAmount:        total.Div(decimal.NewFromInt(int64(count))),
			TransactionCount: count,
			StdAmount:        std,
		})
	}
	return aggs
}

// AggregateTable renders aggregates as a table. Undefined deviations are left blank.
func AggregateTable(customerColumn string, aggs []CustomerAggregate) *model.Table {
	rows := make([][]string, len(aggs))
	for i, a := range aggs {
		std := ""
		if !math.IsNaN(a.StdAmount) {
			std = strconv.FormatFloat(a.StdAmount, 'f', -1, 64)
		}
		rows[i] = []string{
			a.CustomerID,
			a.TotalAmount.String(),
			a.AvgAmount.String(),
			strconv.Itoa(a.TransactionCount),
			std,
		}
	}
	tbl, _ := model.NewTable([]string{
		customerColumn, TotalAmountColumn, AvgAmountColumn, TransactionCountColumn, StdAmountColumn,
	}, rows)
	return tbl
}

// AddTimeFeatures appends hour, day of month, month and year columns derived
// from the timestamp column.
func AddTimeFeatures(t *model.Table, timestampColumn string) (*model.Table, error) {
	stamps, err := t.Column(timestampColumn)
	if err != nil {
		return nil, err
	}

	hours := make([]string, len(stamps))
	days := make([]string, len(stamps))
	months := make([]string, len(stamps))
	years := make([]string, len(stamps))
	for i, s := range stamps {
		ts, err := model.ParseTimestamp(s)
		if err != nil {
			return nil, &model.ParseError{Row: i + 1, Column: timestampColumn, Value: s, Err: err}
		}
		hours[i] = strconv.Itoa(ts.Hour())
		days[i] = strconv.Itoa(ts.Day())
		months[i] = strconv.Itoa(int(ts.Month()))
		years[i] = strconv.Itoa(ts.Year())
	}

	out := t
	for _, col := range []struct {
		name   string
		values []string
	}{
		{TransactionHourColumn, hours},
		{TransactionDayColumn, days},
		{TransactionMonthColumn, months},
		{TransactionYearColumn, years},
	} {
		if out, err = out.WithColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// JoinAggregates appends the aggregate columns to every row of t, matched on
// the customer column. Customers without an aggregate get blank cells.
func JoinAggregates(t *model.Table, customerColumn string, aggs []CustomerAggregate) (*model.Table, error) {
	customers, err := t.Column(customerColumn)
	if err != nil {
		return nil, err
	}

	agg := AggregateTable(customerColumn, aggs)
	byCustomer := make(map[string]int, agg.Len())
	for i := range agg.Len() {
		byCustomer[agg.Row(i)[0]] = i
	}

	out := t
	for c, name := range agg.Columns()[1:] {
		values := make([]string, len(customers))
		for i, id := range customers {
			if r, ok := byCustomer[id]; ok {
				values[i] = agg.Row(r)[c+1]
			}
		}
		if out, err = out.WithColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

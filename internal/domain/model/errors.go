package model

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a source table carries no header or no records
// where at least one is required.
var ErrEmptyInput = errors.New("input contains no records")

// MissingColumnError reports a required column that is absent from a table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// InsufficientDataError reports a clustering request for more clusters than
// there are distinct customers.
type InsufficientDataError struct {
	Clusters  int
	Customers int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot form %d clusters from %d distinct customers", e.Clusters, e.Customers)
}

// InvalidClusterCountError reports a non-positive cluster count.
type InvalidClusterCountError struct {
	Clusters int
}

func (e *InvalidClusterCountError) Error() string {
	return fmt.Sprintf("cluster count must be positive, got %d", e.Clusters)
}

// DuplicateCustomerError reports an RFM table with more than one row for a customer.
type DuplicateCustomerError struct {
	CustomerID string
}

func (e *DuplicateCustomerError) Error() string {
	return fmt.Sprintf("customer %q appears more than once in the RFM table", e.CustomerID)
}

// ParseError reports a cell that could not be converted to its column type.
// Row is 1-based and excludes the header.
type ParseError struct {
	Err    error
	Column string
	Value  string
	Row    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %s value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

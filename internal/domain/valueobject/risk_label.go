package valueobject

import (
	"fmt"
	"strconv"
)

// RiskLabel is the binary proxy target assigned to a customer.
type RiskLabel struct {
	value int
}

var (
	RiskLabelLow  = RiskLabel{value: 0}
	RiskLabelHigh = RiskLabel{value: 1}
)

// RiskLabelFromInt reconstructs a RiskLabel from its integer form.
func RiskLabelFromInt(v int) (RiskLabel, error) {
	switch v {
	case 0:
		return RiskLabelLow, nil
	case 1:
		return RiskLabelHigh, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %d", v)
	}
}

// RiskLabelFromBool maps true to RiskLabelHigh.
func RiskLabelFromBool(high bool) RiskLabel {
	if high {
		return RiskLabelHigh
	}
	return RiskLabelLow
}

// Int returns 0 or 1.
func (l RiskLabel) Int() int {
	return l.value
}

// String returns "0" or "1", the form written to labeled datasets.
func (l RiskLabel) String() string {
	return strconv.Itoa(l.value)
}

// IsHigh reports whether the label marks a high-risk customer.
func (l RiskLabel) IsHigh() bool {
	return l.value == 1
}

// Equal checks equality with another RiskLabel.
func (l RiskLabel) Equal(other RiskLabel) bool {
	return l.value == other.value
}

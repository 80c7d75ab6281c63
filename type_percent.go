package finovate

import (
	"fmt"
	"strconv"
)

// Percent is a rate expressed in percent, 12 means 12%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String returns the shortest representation of the rate followed by a percent sign, e.g. "12.5%".
func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64) + "%"
}

// Fixed returns the rate with two decimals, e.g. "12.50%".
func (p Percent) Fixed() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

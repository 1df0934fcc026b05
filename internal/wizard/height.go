package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errHeightNotPositive = errors.New("height must be greater than zero")

// ParseHeight reads a height in centimetres. Surrounding blanks are ignored
// and a decimal comma is accepted.
func ParseHeight(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("height is empty")
	}
	s = strings.Replace(s, ",", ".", 1)
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("height %q is not a number", input)
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("height %q is not a finite number", input)
	}
	if h <= 0 {
		return 0, errHeightNotPositive
	}
	return h, nil
}

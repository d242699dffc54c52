package utils

import (
	"fmt"
	"strconv"
)

// IncrementFlightNumber increments the trailing digit run of a flight number
// by one, preserving the non-digit prefix and the digit width ("TGY099" becomes
// "TGY100", "TGY100" becomes "TGY101"). A number with no trailing digits is
// returned unchanged.
func IncrementFlightNumber(flightNumber string) string {
	i := len(flightNumber)
	for i > 0 && flightNumber[i-1] >= '0' && flightNumber[i-1] <= '9' {
		i--
	}
	if i == len(flightNumber) {
		return flightNumber
	}

	suffix := flightNumber[i:]
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return flightNumber
	}

	return flightNumber[:i] + fmt.Sprintf("%0*d", len(suffix), n+1)
}

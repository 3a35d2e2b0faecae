package enums

import "fmt"

// ValidDurationsMonths is the business-enumerated set of subscription lengths.
var ValidDurationsMonths = []int{1, 2, 3, 4, 6, 12}

// IsValidDurationMonths reports whether months is an allowed subscription length.
func IsValidDurationMonths(months int) bool {
	for _, candidate := range ValidDurationsMonths {
		if candidate == months {
			return true
		}
	}
	return false
}

// ParseDurationMonths validates a raw duration value.
func ParseDurationMonths(months int) (int, error) {
	if !IsValidDurationMonths(months) {
		return 0, fmt.Errorf("invalid duration %d months", months)
	}
	return months, nil
}

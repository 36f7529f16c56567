package enums

import "fmt"

// ScrapeStatus records the outcome of a competitor scrape run.
type ScrapeStatus string

const (
	ScrapeStatusSuccess ScrapeStatus = "success"
	ScrapeStatusError   ScrapeStatus = "error"
)

var validScrapeStatuses = []ScrapeStatus{
	ScrapeStatusSuccess,
	ScrapeStatusError,
}

// String implements fmt.Stringer.
func (s ScrapeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScrapeStatus.
func (s ScrapeStatus) IsValid() bool {
	for _, candidate := range validScrapeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScrapeStatus converts raw input into a ScrapeStatus.
func ParseScrapeStatus(value string) (ScrapeStatus, error) {
	for _, candidate := range validScrapeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scrape status %q", value)
}

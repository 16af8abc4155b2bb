package enums

import "fmt"

// FacilityStatus is the live open/closed state of a campus facility.
type FacilityStatus string

const (
	FacilityStatusOpen   FacilityStatus = "open"
	FacilityStatusClosed FacilityStatus = "closed"
	FacilityStatusBusy   FacilityStatus = "busy"
)

var validFacilityStatuses = []FacilityStatus{
	FacilityStatusOpen,
	FacilityStatusClosed,
	FacilityStatusBusy,
}

// IsValid reports whether the value is a known FacilityStatus.
func (s FacilityStatus) IsValid() bool {
	for _, candidate := range validFacilityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseFacilityStatus converts raw input into a FacilityStatus.
func ParseFacilityStatus(value string) (FacilityStatus, error) {
	for _, candidate := range validFacilityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid facility status %q", value)
}

package enums

import "fmt"

// ReportType distinguishes lost-item reports from found-item reports.
type ReportType string

const (
	ReportTypeLost  ReportType = "lost"
	ReportTypeFound ReportType = "found"
)

// IsValid reports whether the value is a known ReportType.
func (t ReportType) IsValid() bool {
	return t == ReportTypeLost || t == ReportTypeFound
}

// ParseReportType converts raw input into a ReportType.
func ParseReportType(value string) (ReportType, error) {
	switch ReportType(value) {
	case ReportTypeLost:
		return ReportTypeLost, nil
	case ReportTypeFound:
		return ReportTypeFound, nil
	}
	return "", fmt.Errorf("invalid report type %q", value)
}

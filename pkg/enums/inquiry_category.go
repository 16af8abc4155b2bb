package enums

import "fmt"

// InquiryCategory classifies a submitted inquiry form.
type InquiryCategory string

const (
	InquiryCategoryComplaint   InquiryCategory = "complaint"
	InquiryCategoryImprovement InquiryCategory = "improvement"
)

// IsValid reports whether the value is a known InquiryCategory.
func (c InquiryCategory) IsValid() bool {
	return c == InquiryCategoryComplaint || c == InquiryCategoryImprovement
}

// ParseInquiryCategory converts raw input into an InquiryCategory.
func ParseInquiryCategory(value string) (InquiryCategory, error) {
	switch InquiryCategory(value) {
	case InquiryCategoryComplaint:
		return InquiryCategoryComplaint, nil
	case InquiryCategoryImprovement:
		return InquiryCategoryImprovement, nil
	}
	return "", fmt.Errorf("invalid inquiry category %q", value)
}

package inquiries

import "github.com/campusweb/portal-backend/pkg/enums"

// Inquiry is a submitted complaint or improvement suggestion.
type Inquiry struct {
	ID          string                `json:"id"`
	Category    enums.InquiryCategory `json:"category"`
	Description string                `json:"description"`
	Date        string                `json:"date"`
	Location    string                `json:"location"`
	CreatedAt   string                `json:"createdAt"`
	User        string                `json:"user"`
}

func (i Inquiry) DocumentKey() string { return i.ID }

func (i Inquiry) WithDocumentKey(key string) Inquiry {
	i.ID = key
	return i
}

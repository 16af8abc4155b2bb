package lostfound

import "github.com/campusweb/portal-backend/pkg/enums"

// Report is a lost-or-found item posting.
type Report struct {
	ID           string           `json:"id"`
	Type         enums.ReportType `json:"type"`
	ItemName     string           `json:"itemName"`
	Description  string           `json:"description"`
	Location     string           `json:"location"`
	Date         string           `json:"date"`
	ContactPhone string           `json:"contactPhone"`
	Timestamp    string           `json:"timestamp"`
	User         string           `json:"user"`
}

func (r Report) DocumentKey() string { return r.ID }

func (r Report) WithDocumentKey(key string) Report {
	r.ID = key
	return r
}

package events

// Event is a campus announcement shown on the dashboard calendar.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	RoomID      string `json:"roomId"`
	Urgent      bool   `json:"urgent"`
}

func (e Event) DocumentKey() string { return e.ID }

func (e Event) WithDocumentKey(key string) Event {
	e.ID = key
	return e
}

package forum

// Message is one course-forum post.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	CourseID  string `json:"courseId,omitempty"`
}

func (m Message) DocumentKey() string { return m.ID }

func (m Message) WithDocumentKey(key string) Message {
	m.ID = key
	return m
}

package courses

import "github.com/campusweb/portal-backend/pkg/enums"

// Course is a catalog entry plus its enrolment roster.
type Course struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Code             string             `json:"code"`
	Instructor       string             `json:"instructor"`
	Credits          int                `json:"credits"`
	Status           enums.CourseStatus `json:"status"`
	Progress         int                `json:"progress"`
	SelectedStudents []string           `json:"selectedStudents"`
}

func (c Course) DocumentKey() string { return c.ID }

func (c Course) WithDocumentKey(key string) Course {
	c.ID = key
	return c
}

// HasStudent reports whether the student is on the course roster.
func (c Course) HasStudent(studentID string) bool {
	for _, id := range c.SelectedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

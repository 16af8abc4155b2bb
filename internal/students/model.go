package students

import "github.com/campusweb/portal-backend/pkg/enums"

// Student is the registrar record shown in the study-management pages.
type Student struct {
	ID               string              `json:"id"`
	StudentNumber    string              `json:"studentNumber"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	FullName         string              `json:"fullName"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	Department       string              `json:"department"`
	Year             int                 `json:"year"`
	Semester         enums.Semester      `json:"semester"`
	CreditsCompleted int                 `json:"creditsCompleted"`
	GPA              float64             `json:"gpa"`
	BirthDate        string              `json:"birthDate"`
	Age              int                 `json:"age"`
	Gender           enums.Gender        `json:"gender"`
	City             string              `json:"city"`
	Status           enums.StudentStatus `json:"status"`
	EnrollmentDate   string              `json:"enrollmentDate"`
	LastActive       string              `json:"lastActive"`
	EmergencyContact string              `json:"emergencyContact"`
	EmergencyPhone   string              `json:"emergencyPhone"`
	Notes            string              `json:"notes,omitempty"`
}

func (s Student) DocumentKey() string { return s.ID }

func (s Student) WithDocumentKey(key string) Student {
	s.ID = key
	return s
}

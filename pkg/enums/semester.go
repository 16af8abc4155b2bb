package enums

// Semester is the Hebrew academic semester letter carried on student records.
type Semester string

const (
	SemesterAleph Semester = "א"
	SemesterBet   Semester = "ב"
	SemesterGimel Semester = "ג"
)

// IsValid reports whether the value is a known Semester.
func (s Semester) IsValid() bool {
	switch s {
	case SemesterAleph, SemesterBet, SemesterGimel:
		return true
	}
	return false
}

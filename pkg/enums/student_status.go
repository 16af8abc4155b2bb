package enums

import "fmt"

// StudentStatus tracks the enrolment lifecycle of a student record.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusSuspended StudentStatus = "suspended"
)

var validStudentStatuses = []StudentStatus{
	StudentStatusActive,
	StudentStatusInactive,
	StudentStatusGraduated,
	StudentStatusSuspended,
}

// IsValid reports whether the value is a known StudentStatus.
func (s StudentStatus) IsValid() bool {
	for _, candidate := range validStudentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStudentStatus converts raw input into a StudentStatus.
func ParseStudentStatus(value string) (StudentStatus, error) {
	for _, candidate := range validStudentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid student status %q", value)
}

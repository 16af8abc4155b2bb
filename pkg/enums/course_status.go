package enums

import "fmt"

// CourseStatus tracks where a course sits in the academic cycle.
type CourseStatus string

const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusCompleted CourseStatus = "completed"
	CourseStatusUpcoming  CourseStatus = "upcoming"
)

var validCourseStatuses = []CourseStatus{
	CourseStatusActive,
	CourseStatusCompleted,
	CourseStatusUpcoming,
}

// IsValid reports whether the value is a known CourseStatus.
func (s CourseStatus) IsValid() bool {
	for _, candidate := range validCourseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCourseStatus converts raw input into a CourseStatus.
func ParseCourseStatus(value string) (CourseStatus, error) {
	for _, candidate := range validCourseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid course status %q", value)
}

package users

import "github.com/campusweb/portal-backend/pkg/enums"

// User is a portal account. PasswordHash is persisted with the document
// but stripped from API responses via Public.
type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         enums.UserRole `json:"role"`
	Phone        string         `json:"phone,omitempty"`
	Age          int            `json:"age,omitempty"`
	City         string         `json:"city,omitempty"`
	Gender       enums.Gender   `json:"gender,omitempty"`
	StudentID    string         `json:"studentId,omitempty"`
	PasswordHash string         `json:"passwordHash,omitempty"`
}

func (u User) DocumentKey() string { return u.ID }

func (u User) WithDocumentKey(key string) User {
	u.ID = key
	return u
}

// PublicUser is the response shape for account data.
type PublicUser struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	Phone     string         `json:"phone,omitempty"`
	Age       int            `json:"age,omitempty"`
	City      string         `json:"city,omitempty"`
	Gender    enums.Gender   `json:"gender,omitempty"`
	StudentID string         `json:"studentId,omitempty"`
}

// Public strips credentials from the stored record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Age:       u.Age,
		City:      u.City,
		Gender:    u.Gender,
		StudentID: u.StudentID,
	}
}

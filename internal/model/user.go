package model

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Student is a read-only view over the users table. Accounts are owned by the
// identity provider, so the id is an opaque string.
// swagger:model Student
type Student struct {
	ID    string `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100;index" json:"email"`
}

func (Student) TableName() string {
	return "users"
}

// DisplayName falls back to the email when no name was recorded.
func (s *Student) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// Admin domain values that are categories rather than locations.
const (
	DomainCleanliness = "Cleanliness"
	DomainMaintenance = "Maintenance"
	DomainAllReports  = "All Reports"
)

type User struct {
	ID       string   `gorm:"column:id;primaryKey" json:"id"`
	Password string   `gorm:"column:password;not null" json:"-"`
	Name     string   `gorm:"column:name;not null" json:"name"`
	Email    *string  `gorm:"column:email" json:"email"`
	Role     UserRole `gorm:"column:role;not null" json:"role"`
	Domain   *string  `gorm:"column:domain" json:"domain"` // nil for students, location/category for admins

	// PendingPassword holds the hash of a mailed temporary password until it
	// is first used to log in.
	PendingPassword *string `gorm:"column:pending_password" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the user projection returned after login; it never carries the password.
type Profile struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	Domain *string  `json:"domain"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Role: u.Role, Domain: u.Domain}
}

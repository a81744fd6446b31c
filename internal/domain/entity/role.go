package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleName is the closed set of roles the access policy knows about.
type RoleName string

const (
	RoleAdmin   RoleName = "admin"
	RoleDoctor  RoleName = "doctor"
	RolePatient RoleName = "patient"
)

// Role ID constants, matching the seeded rows
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)

// RoleFromID maps a seeded role id to its name. Unknown ids yield "".
func RoleFromID(id int) RoleName {
	switch id {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	default:
		return ""
	}
}

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

// Actor is the authenticated identity performing a request.
type Actor struct {
	UserID int
	Role   RoleName
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsDoctor() bool  { return a.Role == RoleDoctor }
func (a Actor) IsPatient() bool { return a.Role == RolePatient }

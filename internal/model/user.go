package model

import "time"

// Role is the access tier assigned to a user at registration.
type Role string

const (
	RoleUser      Role = "user"
	RoleSuperuser Role = "superuser"
)

// User represents a registered account. Records are immutable after
// registration; there is no update or delete path.
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:20;not null;default:'user';index"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts exactly the enum names.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username     string    `gorm:"not null"                       json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"           json:"email"`
	PasswordHash string    `gorm:"not null"                       json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null"      json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

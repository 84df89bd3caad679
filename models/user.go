package models

import (
	"time"
)

// User roles
const (
	RoleUsuario = "usuario"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"column:criado_em" json:"criado_em"`
	UpdatedAt time.Time `json:"-"`

	Name                string     `gorm:"column:nome;not null" json:"nome"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                string     `gorm:"column:papel;not null;default:usuario" json:"papel"` // usuario, admin
	AvatarURL           *string    `json:"avatar_url"`
	IsActive            bool       `gorm:"not null;default:true" json:"-"`
	LastLoginAt         *time.Time `json:"-"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil        *time.Time `json:"-"`
}

// IsAdmin checks if the user may manage feedback tickets
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLockedOut checks if too many failed logins are still being penalised
func (u *User) IsLockedOut() bool {
	return u.LockoutUntil != nil && time.Now().Before(*u.LockoutUntil)
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "usuarios"
}

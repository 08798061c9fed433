package model

import "time"

const (
	RoleReader = 0
	RoleAuthor = 1
	RoleStaff  = 2
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Role      int    `gorm:"not null;default:0"` // 0=reader, 1=author, 2=staff
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Active    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAuthor() bool {
	return u.Role >= RoleAuthor
}

func (u *User) IsStaff() bool {
	return u.Role >= RoleStaff
}

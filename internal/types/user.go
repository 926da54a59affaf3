package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"column:password;not null" json:"-"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	Role        string    `gorm:"column:role;type:varchar(20);not null;default:'teacher'" json:"role"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

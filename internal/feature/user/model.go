package user

import (
	"time"

	"go-gin-user-crud/internal/domain"
)

type UserModel struct {
	ID     int    `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"size:20;not null"`
	Gender string `gorm:"size:8;not null"`
	Age    int    `gorm:"not null"`
	Email  string `gorm:"size:50;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:     m.ID,
		Name:   m.Name,
		Gender: domain.Gender(m.Gender),
		Age:    m.Age,
		Email:  m.Email,
	}
}

func FromDomain(u *domain.User) UserModel {
	return UserModel{
		ID:     u.ID,
		Name:   u.Name,
		Gender: string(u.Gender),
		Age:    u.Age,
		Email:  u.Email,
	}
}

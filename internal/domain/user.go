package domain

import (
	"context"
	"errors"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders 按表单展示顺序返回全部可选性别
func Genders() []Gender { return []Gender{GenderMale, GenderFemale} }

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Age    int    `json:"age"`
	Email  string `json:"email"`
}

var ErrUserNotFound = errors.New("user not found")

// UserRepository 持久化协作者；List 按 id 升序返回
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	Save(ctx context.Context, u *User) error
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
	Count(ctx context.Context) (int64, error)
}

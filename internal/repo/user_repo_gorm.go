package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-user-crud/internal/domain"
	"go-gin-user-crud/internal/feature/user"
)

var _ domain.UserRepository = (*UserRepo)(nil)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) AutoMigrate() error { return r.db.AutoMigrate(&user.UserModel{}) }

// HasTable 报告 users 表是否已存在
func (r *UserRepo) HasTable() bool { return r.db.Migrator().HasTable(&user.UserModel{}) }

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var rows []user.UserModel
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u := m.ToDomain()
	return &u, nil
}

// Save 新建（ID 为 0）或整行覆盖；新建后回填 ID
func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	db := r.db.WithContext(ctx)
	if m.ID == 0 {
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		u.ID = m.ID
		return nil
	}
	res := db.Model(&user.UserModel{}).Where("id = ?", m.ID).
		Select("name", "gender", "age", "email", "updated_at").
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 部分驱动（mysql 默认）返回实际变更行数，内容未变时为 0，需再确认记录是否存在
		var n int64
		if err := db.Model(&user.UserModel{}).Where("id = ?", m.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
	}
	return nil
}

func (r *UserRepo) DeleteByIDs(ctx context.Context, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&user.UserModel{})
	return res.RowsAffected, res.Error
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.UserModel{}).Count(&n).Error
	return n, err
}

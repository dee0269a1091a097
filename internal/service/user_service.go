package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"go-gin-user-crud/internal/core/cache"
	"go-gin-user-crud/internal/domain"
)

const listCacheKey = "users:list"

type UserService struct {
	repo  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

type Option func(*UserService)

// WithCache 为用户列表开启读缓存，写操作后失效
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *UserService) {
		s.cache = c
		s.ttl = ttl
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *UserService) { s.log = l }
}

func NewUserService(repo domain.UserRepository, opts ...Option) *UserService {
	s := &UserService{repo: repo, log: zap.NewNop(), ttl: time.Minute}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) GetUserList(ctx context.Context) ([]domain.User, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, listCacheKey, s.ttl, s.repo.List)
}

func (s *UserService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// SaveUser 新建或整体覆盖；ID 为 0 时由存储分配
func (s *UserService) SaveUser(ctx context.Context, u *domain.User) error {
	created := u.ID == 0
	if err := s.repo.Save(ctx, u); err != nil {
		return fmt.Errorf("save user %d: %w", u.ID, err)
	}
	s.invalidate(ctx)
	s.log.Info("user saved", zap.Int("id", u.ID), zap.Bool("created", created))
	return nil
}

// DeleteUsers 删除给定 id 集合，重复 id 只算一次，返回实际删除条数
func (s *UserService) DeleteUsers(ctx context.Context, ids []int) (int64, error) {
	set := lo.Uniq(ids)
	slices.Sort(set)

	n, err := s.repo.DeleteByIDs(ctx, set)
	if err != nil {
		return 0, fmt.Errorf("delete users %v: %w", set, err)
	}
	s.invalidate(ctx)
	s.log.Info("users deleted", zap.Ints("ids", set), zap.Int64("deleted", n))
	return n, nil
}

// SeedIfEmpty 仅在表为空时写入初始数据
func (s *UserService) SeedIfEmpty(ctx context.Context, users []domain.User) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i := range users {
		u := users[i]
		u.ID = 0
		if err := s.repo.Save(ctx, &u); err != nil {
			return i, fmt.Errorf("seed user %q: %w", u.Name, err)
		}
	}
	s.invalidate(ctx)
	return len(users), nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.log.Warn("user list cache invalidation failed", zap.Error(err))
	}
}

// DefaultSeed 开发环境的示例数据
func DefaultSeed() []domain.User {
	return []domain.User{
		{Name: "Taro", Gender: domain.GenderMale, Age: 27, Email: "taro@x.com"},
		{Name: "Jiro", Gender: domain.GenderMale, Age: 22, Email: "jiro@x.com"},
		{Name: "Hanako", Gender: domain.GenderFemale, Age: 25, Email: "hanako@x.com"},
	}
}

package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"user-api-demo/internal/domain"
)

// ReservedNamePrefix 以此开头的用户名会被业务规则拒绝
const ReservedNamePrefix = "test"

type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	s := &UserService{repo: repo, log: l}
	usersLive.Set(float64(repo.Count()))
	return s
}

func (s *UserService) GetUser(id int64) (domain.User, error) {
	u, ok := s.repo.FindByID(id)
	if !ok {
		return domain.User{}, fmt.Errorf("get user %d: %w", id, domain.ErrUserNotFound)
	}
	return u, nil
}

// ListUsers 过滤条件为空时原样返回仓储顺序
func (s *UserService) ListUsers(f domain.UserFilter) []domain.User {
	all := s.repo.List()
	if f.Empty() {
		return all
	}
	out := all[:0]
	for _, u := range all {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserService) CreateUser(name, role string) (domain.User, error) {
	if err := validateName(name); err != nil {
		validationRejected.WithLabelValues("create").Inc()
		return domain.User{}, err
	}
	u := s.repo.Create(name, role)
	usersLive.Set(float64(s.repo.Count()))
	s.log.Debug("user created", zap.Int64("id", u.ID), zap.String("role", u.Role))
	return u, nil
}

// UpdateUser 先校验再查找，与创建共用同一规则
func (s *UserService) UpdateUser(id int64, name, role string) (domain.User, error) {
	if err := validateName(name); err != nil {
		validationRejected.WithLabelValues("update").Inc()
		return domain.User{}, err
	}
	u, ok := s.repo.Update(id, name, role)
	if !ok {
		return domain.User{}, fmt.Errorf("update user %d: %w", id, domain.ErrUserNotFound)
	}
	s.log.Debug("user updated", zap.Int64("id", id))
	return u, nil
}

func (s *UserService) DeleteUser(id int64) (int64, error) {
	deleted, ok := s.repo.Delete(id)
	if !ok {
		return 0, fmt.Errorf("delete user %d: %w", id, domain.ErrUserNotFound)
	}
	usersLive.Set(float64(s.repo.Count()))
	s.log.Debug("user deleted", zap.Int64("id", deleted))
	return deleted, nil
}

func (s *UserService) Count() int { return s.repo.Count() }

func validateName(name string) error {
	if strings.HasPrefix(name, ReservedNamePrefix) {
		return domain.NewValidationError("name",
			fmt.Sprintf("name must not start with %q", ReservedNamePrefix), name)
	}
	return nil
}

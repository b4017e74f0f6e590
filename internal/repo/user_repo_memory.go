package repo

import (
	"fmt"
	"sync"

	"user-api-demo/internal/domain"
)

// UserRepo 进程内用户集合，所有读写共用一把锁
type UserRepo struct {
	mu     sync.RWMutex
	users  []domain.User // 插入顺序
	nextID int64
}

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(seed ...domain.User) (*UserRepo, error) {
	r := &UserRepo{users: make([]domain.User, 0, len(seed)), nextID: 1}
	seen := make(map[int64]struct{}, len(seed))
	for _, u := range seed {
		if _, dup := seen[u.ID]; dup {
			return nil, fmt.Errorf("seed user %d: %w", u.ID, domain.ErrDuplicateID)
		}
		seen[u.ID] = struct{}{}
		r.users = append(r.users, u)
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r, nil
}

// indexOf 调用方需持锁
func (r *UserRepo) indexOf(id int64) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepo) FindByID(id int64) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.users[i], true
	}
	return domain.User{}, false
}

func (r *UserRepo) List() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *UserRepo) Create(name, role string) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := domain.User{ID: r.nextID, Name: name, Role: role}
	r.nextID++
	r.users = append(r.users, u)
	return u
}

func (r *UserRepo) Update(id int64, name, role string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.User{}, false
	}
	r.users[i].Name = name
	r.users[i].Role = role
	return r.users[i], true
}

func (r *UserRepo) Delete(id int64) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return 0, false
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return id, true
}

func (r *UserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

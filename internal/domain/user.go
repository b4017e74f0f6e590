package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"` // 自由文本，不做枚举
}

// UserFilter 列表精确匹配条件，空串表示不过滤
type UserFilter struct {
	Name string
	Role string
}

func (f UserFilter) Empty() bool { return f.Name == "" && f.Role == "" }

func (f UserFilter) Match(u User) bool {
	if f.Name != "" && f.Name != u.Name {
		return false
	}
	if f.Role != "" && f.Role != u.Role {
		return false
	}
	return true
}

// UserRepository 用户集合的唯一持有者；缺失用 ok=false 表示，不返回错误
type UserRepository interface {
	FindByID(id int64) (User, bool)
	List() []User
	Create(name, role string) User
	Update(id int64, name, role string) (User, bool)
	Delete(id int64) (int64, bool)
	Count() int
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateID  = errors.New("duplicate user id")
)

// FieldViolation 单字段校验失败
type FieldViolation struct {
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError 业务规则校验失败（与 schema 校验共用 422）
type ValidationError struct {
	Fields map[string]FieldViolation
}

func NewValidationError(field, message string, value any) *ValidationError {
	return &ValidationError{Fields: map[string]FieldViolation{
		field: {Message: message, Value: value},
	}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k].Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

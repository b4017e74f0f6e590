package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"user-api-demo/internal/domain"
	"user-api-demo/internal/repo"
)

func newService(t *testing.T) (*UserService, *observer.ObservedLogs) {
	t.Helper()
	r, err := repo.NewUserRepo(
		domain.User{ID: 1, Name: "Jane1 Doe", Role: "Admin"},
		domain.User{ID: 2, Name: "Jane2 Doe", Role: "Admin"},
		domain.User{ID: 3, Name: "Jane3 Doe", Role: "Admin"},
	)
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	return NewUserService(r, zap.New(core)), logs
}

func TestUserService_NameRule(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "reserved prefix", input: "testXYZ", wantErr: true},
		{name: "bare prefix", input: "test", wantErr: true},
		{name: "prefix in the middle", input: "Xtest", wantErr: false},
		{name: "different case", input: "Test", wantErr: false},
		{name: "plain", input: "Alice", wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newService(t)
			_, err := s.CreateUser(tt.input, "Admin")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, "name")
			assert.Equal(t, tt.input, ve.Fields["name"].Value)
			assert.Equal(t, 3, s.Count(), "rejected create must not touch the store")
		})
	}
}

func TestUserService_CreateThenGet(t *testing.T) {
	s, logs := newService(t)

	u, err := s.CreateUser("Alice", "Dev")
	require.NoError(t, err)
	assert.NotContains(t, []int64{1, 2, 3}, u.ID)

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Dev", got.Role)
	assert.Equal(t, 1, logs.FilterMessage("user created").Len())
}

func TestUserService_NotFound(t *testing.T) {
	s, _ := newService(t)

	_, err := s.GetUser(99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.UpdateUser(99, "Alice", "Dev")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.DeleteUser(99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_UpdateValidatesBeforeLookup(t *testing.T) {
	s, _ := newService(t)

	_, err := s.UpdateUser(99, "testing", "Dev")
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)

	u, err := s.UpdateUser(1, "Jane", "Owner")
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: 1, Name: "Jane", Role: "Owner"}, u)
}

func TestUserService_ListFilter(t *testing.T) {
	s, _ := newService(t)
	_, err := s.CreateUser("Bob", "Dev")
	require.NoError(t, err)

	assert.Len(t, s.ListUsers(domain.UserFilter{}), 4)

	admins := s.ListUsers(domain.UserFilter{Role: "Admin"})
	require.Len(t, admins, 3)
	assert.Equal(t, int64(1), admins[0].ID)

	assert.Len(t, s.ListUsers(domain.UserFilter{Name: "Bob", Role: "Dev"}), 1)
	assert.Empty(t, s.ListUsers(domain.UserFilter{Name: "Bob", Role: "Admin"}))
}

func TestUserService_DeleteScenario(t *testing.T) {
	s, _ := newService(t)

	require.Len(t, s.ListUsers(domain.UserFilter{}), 3)
	u, err := s.GetUser(2)
	require.NoError(t, err)
	assert.Equal(t, "Jane2 Doe", u.Name)

	id, err := s.DeleteUser(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	assert.Len(t, s.ListUsers(domain.UserFilter{}), 2)
	_, err = s.GetUser(2)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

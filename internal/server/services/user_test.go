package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkarpenko/drivespace/internal/common"
	"github.com/vkarpenko/drivespace/internal/server/auth"
	"github.com/vkarpenko/drivespace/internal/server/metrics"
)

type userFixture struct {
	svc     *UserService
	users   *fakeUsers
	store   *fakeStore
	metrics *metrics.NamespaceMetrics
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:   &fakeUsers{},
		store:   &fakeStore{},
		metrics: testMetrics(),
	}
	f.svc = NewUserService(f.users, f.store, f.metrics, testLogger(), []byte("test-secret"), time.Hour)
	return f
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
		FullName: "Alice Example",
	}
}

func TestRegister(t *testing.T) {
	fx := newUserFixture()

	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "User", user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.Equal(t, []string{"put alice/"}, fx.store.calls)
}

func TestRegister_Validation(t *testing.T) {
	fx := newUserFixture()

	cases := map[string]func(*RegisterRequest){
		"short username":   func(r *RegisterRequest) { r.Username = "ab" },
		"slash username":   func(r *RegisterRequest) { r.Username = "a/b/c" },
		"bad email":        func(r *RegisterRequest) { r.Email = "not-an-email" },
		"short password":   func(r *RegisterRequest) { r.Password = "short" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRegister()
			mutate(&req)
			_, err := fx.svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
	assert.Empty(t, fx.store.calls)
	assert.Empty(t, fx.users.records)
}

func TestRegister_Duplicate(t *testing.T) {
	fx := newUserFixture()
	_, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = fx.svc.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, common.ErrDuplicateUser)
}

func TestRegister_PlaceholderPutFails(t *testing.T) {
	fx := newUserFixture()
	fx.store.putErr = common.ErrStorageUnavailable

	// registration still succeeds; the missing placeholder is only counted
	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.OrphanWindows.WithLabelValues("register")))
}

func TestLogin(t *testing.T) {
	fx := newUserFixture()
	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	token, got, err := fx.svc.Login(context.Background(), "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	p, err := auth.VerifyToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "User", p.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	fx := newUserFixture()
	_, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = fx.svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	fx := newUserFixture()

	_, _, err := fx.svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	fx := newUserFixture()
	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	inactive := false
	updated, err := fx.svc.Update(context.Background(), user.ID, UpdateRequest{
		FullName: "Alice Q. Example",
		Role:     "Admin",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Q. Example", updated.FullName)
	assert.Equal(t, "Admin", updated.Role)
	assert.False(t, updated.IsActive)
	// untouched fields stay
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdate_BadEmail(t *testing.T) {
	fx := newUserFixture()
	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = fx.svc.Update(context.Background(), user.ID, UpdateRequest{Email: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDeleteUser(t *testing.T) {
	fx := newUserFixture()
	user, err := fx.svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(context.Background(), user.ID))
	_, err = fx.svc.Get(context.Background(), user.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/models"
	"github.com/modeldeck/modeldeck/internal/storage"
)

func TestHashPasswordVerify(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	hash := HashPassword([]byte("correct horse"), salt)

	assert.True(t, VerifyPassword([]byte("correct horse"), salt, hash))
	assert.False(t, VerifyPassword([]byte("wrong horse"), salt, hash))

	otherSalt, err := NewSalt()
	require.NoError(t, err)
	assert.False(t, VerifyPassword([]byte("correct horse"), otherSalt, hash))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	token, expiresAt, err := GenerateJWT(userID, secret)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := ParseUserID(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateJWT(uuid.New(), []byte("secret-a"))
	require.NoError(t, err)

	_, err = ParseUserID(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseUserID(token, secret)
	assert.Error(t, err)
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{"sub": uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseUserID(token, []byte("test-secret"))
	assert.Error(t, err)
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return storage.ErrDuplicateUser
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	for _, user := range f.users {
		if user.ID == id {
			user.LastLoginAt = &now
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, []byte("test-secret"))
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	parsed, err := ParseUserID(session.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)

	require.NotNil(t, store.users["alice@example.com"].LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, []byte("test-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	store.users["alice@example.com"].Enabled = false
	_, err = svc.Login(ctx, "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserStore(), []byte("test-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, errs.ErrDuplicate)
}

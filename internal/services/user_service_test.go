package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtutil "github.com/staranysa/TheHappyHaul/pkg/jwt"
)

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, "taken@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name, email, password, message string
	}{
		{"missing email", "", "secret1", "Email and password are required"},
		{"missing password", "a@example.com", "", "Email and password are required"},
		{"bad email", "not-an-email", "secret1", "Invalid email format"},
		{"email with space", "a b@example.com", "secret1", "Invalid email format"},
		{"short password", "a@example.com", "12345", "Password must be at least 6 characters"},
		{"duplicate ignoring case", "TAKEN@example.com", "secret1", "Email already registered"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.CreateUser(ctx, tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.EqualError(t, err, tc.message)
		})
	}

	assert.Len(t, f.users.ListUsers(ctx), 1)
}

func TestCreateUserStoresLowercasedEmailAndHash(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.CreateUser(context.Background(), "Parent@Example.COM", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "parent@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, user, err := f.users.Register(ctx, "parent@example.com", "secret1")
	require.NoError(t, err)
	claims, err := jwtutil.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	token, authed, err := f.users.Authenticate(ctx, "PARENT@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, authed.ID)

	_, _, err = f.users.Authenticate(ctx, "parent@example.com", "wrong-password")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.EqualError(t, err, "Invalid email or password")

	_, _, err = f.users.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.EqualError(t, err, "Invalid email or password")

	_, _, err = f.users.Authenticate(ctx, "", "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestGetUserByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, "parent@example.com", "secret1")
	require.NoError(t, err)

	got, err := f.users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", got.Email)

	_, err = f.users.GetUserByID(ctx, "missing")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, "User not found")
}

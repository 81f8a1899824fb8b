package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		secret    string
		setupMock func(m *MockUserLookup)
		wantErr   error
	}{
		{
			name:      "missing email",
			email:     "",
			secret:    "s3cret",
			setupMock: func(m *MockUserLookup) {},
			wantErr:   ErrInvalidEmail,
		},
		{
			name:      "malformed email",
			email:     "not-an-email",
			secret:    "s3cret",
			setupMock: func(m *MockUserLookup) {},
			wantErr:   ErrInvalidEmail,
		},
		{
			name:      "empty secret",
			email:     "a@x.com",
			secret:    "",
			setupMock: func(m *MockUserLookup) {},
			wantErr:   ErrSecretMissing,
		},
		{
			name:   "unknown user",
			email:  "ghost@x.com",
			secret: "s3cret",
			setupMock: func(m *MockUserLookup) {
				m.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, store.ErrNotFound)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:   "registered user",
			email:  "a@x.com",
			secret: "s3cret",
			setupMock: func(m *MockUserLookup) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&models.User{Email: "a@x.com", Role: models.RoleBuyer}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserLookup)
			tt.setupMock(users)
			svc := NewTokenService(tt.secret, users)

			token, err := svc.Issue(ctx, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestTokenService_IssueInvalidEmailSkipsStore(t *testing.T) {
	users := new(MockUserLookup)
	svc := NewTokenService("s3cret", users)

	_, err := svc.Issue(context.Background(), "no-at-sign")

	assert.ErrorIs(t, err, ErrInvalidEmail)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestTokenService_IssueStoreFailure(t *testing.T) {
	users := new(MockUserLookup)
	boom := errors.New("connection reset")
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, boom)

	_, err := NewTokenService("s3cret", users).Issue(context.Background(), "a@x.com")

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestTokenService_Expiry(t *testing.T) {
	users := new(MockUserLookup)
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(&models.User{Email: "a@x.com"}, nil)

	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewTokenService("s3cret", users, WithClock(c.now))

	token, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	email, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	c.t = c.t.Add(TokenTTL - time.Second)
	email, err = svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	c.t = c.t.Add(2 * time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_ClaimsShape(t *testing.T) {
	users := new(MockUserLookup)
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(&models.User{Email: "a@x.com"}, nil)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("s3cret", users, WithClock(func() time.Time { return issued }))

	token, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Len(t, claims, 2)
	assert.Equal(t, "a@x.com", claims["email"])
	assert.EqualValues(t, issued.Add(TokenTTL).Unix(), claims["exp"])
}

func TestTokenService_VerifyRejects(t *testing.T) {
	now := time.Now()
	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"email": "a@x.com", "exp": now.Add(time.Hour).Unix()})},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte("s3cret"), jwt.MapClaims{"email": "a@x.com", "exp": now.Add(time.Hour).Unix()})},
		{"missing exp", sign(jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"email": "a@x.com"})},
		{"missing email", sign(jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})},
		{"expired", sign(jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"email": "a@x.com", "exp": now.Add(-time.Hour).Unix()})},
	}

	svc := NewTokenService("s3cret", new(MockUserLookup))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_VerifyWithoutSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	if err != nil {
		// newer jwt releases refuse empty HMAC keys outright
		token = "x.y.z"
	}

	_, err = NewTokenService("", new(MockUserLookup)).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

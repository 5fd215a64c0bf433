package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/config"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func newTestAuthService(t *testing.T) (*authService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc, err := NewAuthService(repo, config.JWTConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)
	return svc.(*authService), repo
}

func TestNewAuthService_RequiresSecrets(t *testing.T) {
	_, err := NewAuthService(newFakeUserRepo(), config.JWTConfig{AccessSecret: "only-one"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  anna ", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)

	_, err = svc.Register(ctx, "anna", "other", domain.RolePT)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, "bob", "pw", domain.Role("admin"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Register(ctx, "", "pw", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestRegister_PasswordLongerThanBcryptLimit(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "long", strings.Repeat("p", 80), "")
	require.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = repo.GetByUsername(ctx, "long")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.HashPassword(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	user, err := svc.Register(ctx, "edge", strings.Repeat("p", 72), "")
	require.NoError(t, err)
	assert.Equal(t, "edge", user.Username)
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "coach", "correct-horse", domain.RolePT)
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(ctx, "nobody", "correct-horse")
	_, _, errWrong := svc.Login(ctx, "coach", "battery-staple")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.ErrorIs(t, errUnknown, ErrAuthenticationFailed)
	assert.ErrorIs(t, errWrong, ErrAuthenticationFailed)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_IssuesAccessTokenSignedWithAccessSecret(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, "coach", "pw", domain.RoleMasterPT)
	require.NoError(t, err)

	pair, user, err := svc.Login(ctx, "coach", "pw")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testAccessSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleMasterPT, claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)

	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidAccessToken, "refresh token must not pass as an access token")
}

func TestVerifyAccessToken_RejectsExpiredToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "client", "pw", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, _, err := svc.Login(ctx, "client", "pw")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestVerifyAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           1,
		Role:             domain.RoleMasterPT,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "client", "pw", "")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "client", "pw")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	claims, err := svc.VerifyAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshTokenMissing)
}

func TestRefresh_DeletedUser(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "gone", "pw", "")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "gone", "pw")
	require.NoError(t, err)

	delete(repo.users, user.ID)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airbear/airbear-backend/internal/store/memory"
	pkgAuth "github.com/airbear/airbear-backend/pkg/auth"
	"github.com/airbear/airbear-backend/pkg/config"
	"github.com/airbear/airbear-backend/pkg/enums"
	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
)

var testPasswordCfg = config.PasswordConfig{
	MinLength:        8,
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{Secret: "secret", Issuer: "airbear", ExpirationMinutes: 30}

func buildTestService(t *testing.T, jwtCfg config.JWTConfig) (Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc, err := NewService(ServiceParams{
		Store:          st,
		PasswordConfig: testPasswordCfg,
		JWTConfig:      jwtCfg,
		Now:            func() time.Time { return time.Now() },
	})
	require.NoError(t, err)
	return svc, st
}

func TestRegisterDefaultsRoleAndNormalizesEmail(t *testing.T) {
	svc, st := buildTestService(t, testJWTCfg)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Rider@PSU.edu ",
		Username: "rider",
		Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "rider@psu.edu", resp.User.Email)
	assert.Equal(t, enums.UserRoleUser, resp.User.Role)

	stored, err := st.GetUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough", stored.PasswordHash)
	assert.Equal(t, "0.00", stored.CO2Saved.String())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, st := buildTestService(t, testJWTCfg)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.co", Username: "abc", Password: "short"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Details(), "password")

	all, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegisterDuplicateEmailCreatesNothing(t *testing.T) {
	svc, st := buildTestService(t, testJWTCfg)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "dup@psu.edu", Username: "first", Password: "long-enough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "DUP@psu.edu", Username: "second", Password: "long-enough"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.Register(ctx, RegisterRequest{Email: "other@psu.edu", Username: "first", Password: "long-enough"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	all, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLoginMintsTokenWhenConfigured(t *testing.T) {
	svc, _ := buildTestService(t, testJWTCfg)
	ctx := context.Background()
	driver := enums.UserRoleDriver
	reg, err := svc.Register(ctx, RegisterRequest{Email: "d@psu.edu", Username: "driver", Password: "long-enough", Role: &driver})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "D@psu.edu", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	require.NotEmpty(t, resp.Token)

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleDriver, claims.Role)

	current, err := svc.CurrentUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "driver", current.Username)
}

func TestLoginWithoutJWTConfigOmitsToken(t *testing.T) {
	svc, _ := buildTestService(t, config.JWTConfig{})
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Email: "n@psu.edu", Username: "notoken", Password: "long-enough"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "n@psu.edu", Password: "long-enough"})
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := buildTestService(t, testJWTCfg)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Email: "x@psu.edu", Username: "xuser", Password: "long-enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "x@psu.edu", Password: "wrong-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@psu.edu", Password: "long-enough"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

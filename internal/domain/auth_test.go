package domain

import (
	"testing"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/testutil"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestAuthDomain() *authDomain {
	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		nil,
	)
}

func Test_authDomain_Refresh(t *testing.T) {
	ctx := testutil.MockContext()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	authDomain := newTestAuthDomain()
	refreshToken, err := authDomain.generateRefreshToken(ctx, user.ID)
	require.NoError(t, err)

	resp, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RefreshToken)

	// The new access token carries the user identity.
	var info model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &info))
	require.Equal(t, user.ID, info.ID)

	// The rotated token is good for the next refresh.
	rotated, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)

	// Replaying an already rotated token revokes the whole family.
	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.Equal(t,
		"Your refresh token will be revoked because it is detected as stolen", err.Error())

	// Even the latest token of the revoked family no longer works.
	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	require.Equal(t, "Request failed", err.Error())
}

func Test_authDomain_createUser_FirstBecomesAdmin(t *testing.T) {
	ctx := testutil.MockContext()

	authDomain := newTestAuthDomain()

	first := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Name:  "first",
		Email: "first@example.edu",
	}
	require.NoError(t, authDomain.createUser(ctx, first))
	require.Equal(t, entity.RoleAdmin, first.Role)

	second := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Name:  "second",
		Email: "second@example.edu",
	}
	require.NoError(t, authDomain.createUser(ctx, second))
	require.Equal(t, entity.RoleStudent, second.Role)
}

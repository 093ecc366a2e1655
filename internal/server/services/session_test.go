package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSession(t *testing.T) {
	f := newUserFixture(t)
	u := f.store.addUser(t, "a@x.com", "pw", true)

	token, err := f.svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)

	got, err := f.svc.ResolveSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestResolveSession_Unauthenticated(t *testing.T) {
	f := newUserFixture(t)

	expired, err := auth.GenerateToken("1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	missingUser, err := auth.GenerateToken("42", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	nonNumeric, err := auth.GenerateToken("x", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "abc.def.ghi",
		"expired":      expired,
		"missing user": missingUser,
		"non numeric":  nonNumeric,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ResolveSession(context.Background(), token)
			require.ErrorIs(t, err, common.ErrUnauthenticated)
		})
	}
}

func TestResolveSession_DeletedUser(t *testing.T) {
	f := newUserFixture(t)
	u := f.store.addUser(t, "a@x.com", "pw", true)
	token, err := f.svc.RefreshSession(u)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccount(context.Background(), u))

	_, err = f.svc.ResolveSession(context.Background(), token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestResolveSession_StoreError(t *testing.T) {
	f := newUserFixture(t)
	u := f.store.addUser(t, "a@x.com", "pw", true)
	token, err := f.svc.RefreshSession(u)
	require.NoError(t, err)

	f.store.errGetUser = errors.New("db down")
	_, err = f.svc.ResolveSession(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRequireActive(t *testing.T) {
	f := newUserFixture(t)
	active := f.store.addUser(t, "a@x.com", "pw", true)
	inactive := f.store.addUser(t, "b@x.com", "pw", false)

	got, err := RequireActive(active)
	require.NoError(t, err)
	assert.Same(t, active, got)

	_, err = RequireActive(inactive)
	require.ErrorIs(t, err, common.ErrInactive)
}

// Register, log in while inactive, get refused by RequireActive, verify,
// then pass.
func TestAccountActivationFlow(t *testing.T) {
	f := newUserFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	ctx := context.Background()
	u, err := f.svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	session, err := f.svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	current, err := f.svc.ResolveSession(ctx, session)
	require.NoError(t, err)
	_, err = RequireActive(current)
	require.ErrorIs(t, err, common.ErrInactive)

	var verifyToken string
	for k := range f.store.tokens {
		if k.userID == u.ID {
			verifyToken = k.token
		}
	}
	require.NotEmpty(t, verifyToken)
	require.NoError(t, f.svc.VerifyEmail(ctx, verifyToken))

	current, err = f.svc.ResolveSession(ctx, session)
	require.NoError(t, err)
	_, err = RequireActive(current)
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

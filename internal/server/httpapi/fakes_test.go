package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	activeToken   = "active-session"
	inactiveToken = "inactive-session"
)

var (
	activeUser   = &models.User{ID: 1, Email: "a@x.com", Active: true}
	inactiveUser = &models.User{ID: 2, Email: "b@x.com"}
)

// fakeUsers resolves the two fixed session tokens and records calls; every
// other method returns err when set.
type fakeUsers struct {
	err   error
	calls []string
	args  []string
}

func (f *fakeUsers) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	return f.err
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := f.record("Register", email, password); err != nil {
		return nil, err
	}
	return &models.User{ID: 3, Email: email}, nil
}

func (f *fakeUsers) VerifyEmail(ctx context.Context, token string) error {
	return f.record("VerifyEmail", token)
}

func (f *fakeUsers) ResendVerification(ctx context.Context, email string) error {
	return f.record("ResendVerification", email)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (string, error) {
	if err := f.record("Login", email, password); err != nil {
		return "", err
	}
	return "new-session", nil
}

func (f *fakeUsers) RefreshSession(user *models.User) (string, error) {
	if err := f.record("RefreshSession"); err != nil {
		return "", err
	}
	return "renewed-session", nil
}

func (f *fakeUsers) UpdateAccount(ctx context.Context, user *models.User, currentPassword, newPassword string) (*models.User, error) {
	if err := f.record("UpdateAccount", currentPassword, newPassword); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *fakeUsers) DeleteAccount(ctx context.Context, user *models.User) error {
	return f.record("DeleteAccount")
}

func (f *fakeUsers) InitiatePasswordReset(ctx context.Context, email string) error {
	return f.record("InitiatePasswordReset", email)
}

func (f *fakeUsers) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.record("ResetPassword", token, newPassword)
}

func (f *fakeUsers) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	switch token {
	case activeToken:
		return activeUser, nil
	case inactiveToken:
		return inactiveUser, nil
	}
	return nil, common.ErrUnauthenticated
}

type fakeSets struct {
	err     error
	sets    map[int64]*models.Set
	added   *models.Set
	offset  int
	limit   int
	deleted bool
}

func (f *fakeSets) AddOrReplaceSet(ctx context.Context, ownerID int64, set *models.Set) (*models.Set, error) {
	if f.err != nil {
		return nil, f.err
	}
	set.OwnerID = ownerID
	set.UID = 100
	f.added = set
	return set, nil
}

func (f *fakeSets) ListSets(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error) {
	f.offset, f.limit = offset, limit
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Set
	for _, s := range f.sets {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSets) GetSet(ctx context.Context, ownerID, id int64) (*models.Set, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.sets[id]; ok && s.OwnerID == ownerID {
		return s, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSets) DeleteSet(ctx context.Context, ownerID, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.deleted, nil
}

func (f *fakeSets) GetCard(ctx context.Context, set *models.Set, id int64) (*models.Card, error) {
	for _, c := range set.Cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeMedia struct {
	err error
	key string
}

func (f *fakeMedia) PresignUpload(ctx context.Context, ownerID int64, kind string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "users/1/" + kind + "/k", "http://put", nil
}

func (f *fakeMedia) PresignDownload(ctx context.Context, ownerID int64, key string) (string, error) {
	f.key = key
	if f.err != nil {
		return "", f.err
	}
	return "http://get", nil
}

type testEnv struct {
	users  *fakeUsers
	sets   *fakeSets
	media  *fakeMedia
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users: &fakeUsers{},
		sets:  &fakeSets{sets: map[int64]*models.Set{}},
		media: &fakeMedia{},
	}
	h := NewHandler(env.users, env.sets, env.media, CookieConfig{
		Name:   common.SessionCookieName,
		MaxAge: time.Hour,
	}, logging.Nop{})
	env.router = NewRouter(h, []string{"http://example.com"})
	return env
}

// do performs a request; session is sent as the session cookie when
// non-empty.
func (e *testEnv) do(method, path, body, session string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: session})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

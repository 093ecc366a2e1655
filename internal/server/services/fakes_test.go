package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/dbx"
	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/auth"
	"github.com/dmitrijs2005/flashnest/internal/server/config"
	"github.com/dmitrijs2005/flashnest/internal/server/mail"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/sets"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- in-memory store shared by the fake repositories ---
// Writes are not rolled back with the surrounding transaction; sqlmock
// only checks that Begin/Commit/Rollback were issued.

type tokenKey struct {
	userID int64
	token  string
}

type setKey struct {
	ownerID int64
	id      int64
}

type fakeStore struct {
	mu sync.Mutex

	users      map[int64]*models.User
	nextUserID int64
	tokens     map[tokenKey]struct{}
	sets       map[setKey]*models.Set
	nextUID    int64

	errGetUser     error
	errCreateToken error
	errCreateSet   error
	errListSets    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[int64]*models.User{},
		tokens: map[tokenKey]struct{}{},
		sets:   map[setKey]*models.Set{},
	}
}

func (s *fakeStore) addUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u := &models.User{ID: s.nextUserID, Email: email, HashedPassword: string(hash), Active: active}
	s.users[u.ID] = u
	cp := *u
	return &cp
}

func (s *fakeStore) user(id int64) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *fakeStore) tokenCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.tokens {
		if k.userID == userID {
			n++
		}
	}
	return n
}

func (s *fakeStore) hasToken(userID int64, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[tokenKey{userID, token}]
	return ok
}

type fakeUsersRepo struct{ s *fakeStore }

func (r fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrEmailExists
		}
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if r.s.errGetUser != nil {
		return nil, r.s.errGetUser
	}
	if u := r.s.user(id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.s.errGetUser != nil {
		return nil, r.s.errGetUser
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r fakeUsersRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.HashedPassword = hash
	return nil
}

func (r fakeUsersRepo) Activate(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Active = true
	return nil
}

func (r fakeUsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	delete(r.s.users, id)
	for k := range r.s.tokens {
		if k.userID == id {
			delete(r.s.tokens, k)
		}
	}
	for k := range r.s.sets {
		if k.ownerID == id {
			delete(r.s.sets, k)
		}
	}
	return true, nil
}

type fakeTokensRepo struct{ s *fakeStore }

func (r fakeTokensRepo) Create(ctx context.Context, userID int64, token string) error {
	if r.s.errCreateToken != nil {
		return r.s.errCreateToken
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[tokenKey{userID, token}] = struct{}{}
	return nil
}

func (r fakeTokensRepo) Exists(ctx context.Context, userID int64, token string) (bool, error) {
	return r.s.hasToken(userID, token), nil
}

func (r fakeTokensRepo) Delete(ctx context.Context, userID int64, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := tokenKey{userID, token}
	if _, ok := r.s.tokens[k]; !ok {
		return false, nil
	}
	delete(r.s.tokens, k)
	return true, nil
}

type fakeSetsRepo struct{ s *fakeStore }

func cloneSet(in *models.Set) *models.Set {
	out := *in
	out.Cards = make([]*models.Card, 0, len(in.Cards))
	for _, c := range in.Cards {
		cc := *c
		out.Cards = append(out.Cards, &cc)
	}
	return &out
}

func (r fakeSetsRepo) Create(ctx context.Context, set *models.Set) (*models.Set, error) {
	if r.s.errCreateSet != nil {
		return nil, r.s.errCreateSet
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := setKey{set.OwnerID, set.ID}
	if _, ok := r.s.sets[k]; ok {
		return nil, errors.New("duplicate key value violates unique constraint")
	}
	r.s.nextUID++
	set.UID = r.s.nextUID
	for _, c := range set.Cards {
		r.s.nextUID++
		c.UID = r.s.nextUID
		c.SetUID = set.UID
	}
	r.s.sets[k] = cloneSet(set)
	return set, nil
}

func (r fakeSetsRepo) Get(ctx context.Context, ownerID, id int64) (*models.Set, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sets[setKey{ownerID, id}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneSet(s), nil
}

func (r fakeSetsRepo) List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error) {
	if r.s.errListSets != nil {
		return nil, r.s.errListSets
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*models.Set
	for k, s := range r.s.sets {
		if k.ownerID == ownerID {
			all = append(all, cloneSet(s))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UID < all[j].UID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r fakeSetsRepo) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := setKey{ownerID, id}
	if _, ok := r.s.sets[k]; !ok {
		return false, nil
	}
	delete(r.s.sets, k)
	return true, nil
}

func (r fakeSetsRepo) GetCard(ctx context.Context, setUID, id int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sets {
		if s.UID != setUID {
			continue
		}
		for _, c := range s.Cards {
			if c.ID == id {
				cc := *c
				return &cc, nil
			}
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return fakeUsersRepo{m.s} }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository         { return fakeTokensRepo{m.s} }
func (m *fakeRepoManager) Sets(db dbx.DBTX) sets.Repository             { return fakeSetsRepo{m.s} }

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (f *fakeMailer) Dispatch(ctx context.Context, msg mail.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

// --- helpers ---

const testSecret = "k"

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type userFixture struct {
	svc    *UserService
	store  *fakeStore
	mailer *fakeMailer
	mock   sqlmock.Sqlmock
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	store := newFakeStore()
	mailer := &fakeMailer{}
	cfg := &config.Config{
		SecretKey:                    testSecret,
		SessionTokenValidityDuration: time.Hour,
		ActionTokenValidityDuration:  time.Hour,
		BcryptCost:                   bcrypt.MinCost,
		StaticURL:                    "https://static.example.com",
	}
	return &userFixture{
		svc:    NewUserService(db, &fakeRepoManager{store}, cfg, mailer, logging.Nop{}),
		store:  store,
		mailer: mailer,
		mock:   mock,
	}
}

// issueActionToken records a fresh single-use token for userID.
func (f *userFixture) issueActionToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := f.svc.recordIssuedToken(context.Background(), nil, userID)
	require.NoError(t, err)
	return token
}

func subjectOf(t *testing.T, token string) string {
	t.Helper()
	sub, err := auth.GetSubjectFromToken(token, []byte(testSecret))
	require.NoError(t, err)
	return sub
}

// Package httpapi is the HTTP boundary of the server. It decodes requests,
// carries the session token in a cookie, and translates service errors into
// a uniform Result envelope.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (string, error)
	RefreshSession(user *models.User) (string, error)
	UpdateAccount(ctx context.Context, user *models.User, currentPassword, newPassword string) (*models.User, error)
	DeleteAccount(ctx context.Context, user *models.User) error
	InitiatePasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

type SetService interface {
	AddOrReplaceSet(ctx context.Context, ownerID int64, set *models.Set) (*models.Set, error)
	ListSets(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error)
	GetSet(ctx context.Context, ownerID, id int64) (*models.Set, error)
	DeleteSet(ctx context.Context, ownerID, id int64) (bool, error)
	GetCard(ctx context.Context, set *models.Set, id int64) (*models.Card, error)
}

type MediaService interface {
	PresignUpload(ctx context.Context, ownerID int64, kind string) (string, string, error)
	PresignDownload(ctx context.Context, ownerID int64, key string) (string, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

type Handler struct {
	users  UserService
	sets   SetService
	media  MediaService
	cookie CookieConfig
	logger logging.Logger
}

func NewHandler(us UserService, ss SetService, ms MediaService, cookie CookieConfig, l logging.Logger) *Handler {
	return &Handler{
		users:  us,
		sets:   ss,
		media:  ms,
		cookie: cookie,
		logger: l.With("module", "http_server"),
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Package services contains server-side business logic. This file implements
// UserService, which handles the account lifecycle: registration, email
// verification, login, account updates and password reset. Single-use
// tokens for verification and reset links are tracked in the tokens table.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/dbx"
	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/auth"
	"github.com/dmitrijs2005/flashnest/internal/server/config"
	"github.com/dmitrijs2005/flashnest/internal/server/mail"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/repomanager"
)

// Mailer queues an email for background delivery.
type Mailer interface {
	Dispatch(ctx context.Context, msg mail.Message)
}

type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	hasher               auth.PasswordHasher
	jwtSecret            []byte
	sessionTokenValidity time.Duration
	actionTokenValidity  time.Duration
	staticURL            string
	mailer               Mailer
	log                  logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, mailer Mailer, log logging.Logger) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		hasher:               auth.NewPasswordHasher(cfg.BcryptCost),
		jwtSecret:            []byte(cfg.SecretKey),
		sessionTokenValidity: cfg.SessionTokenValidityDuration,
		actionTokenValidity:  cfg.ActionTokenValidityDuration,
		staticURL:            cfg.StaticURL,
		mailer:               mailer,
		log:                  log.With("module", "users"),
	}
}

// Register creates an inactive account and emails a verification link.
// The user row and its verification token are written in one transaction;
// email delivery happens in the background and never undoes registration.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err == nil {
		return nil, common.ErrEmailExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	var (
		user  *models.User
		token string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, HashedPassword: hash})
		if err != nil {
			return err
		}
		token, err = s.recordIssuedToken(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	s.mailer.Dispatch(ctx, mail.VerificationMessage(s.staticURL, user.Email, token))
	return user, nil
}

// VerifyEmail activates the token's subject. Every failure is reported as
// common.ErrInvalidToken (or ErrTokenExpired). A still-outstanding token
// presented for an already active user is discarded and rejected.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userFromActionToken(ctx, token)
	if err != nil {
		return err
	}

	ok, err := s.isTokenOutstanding(ctx, s.db, user.ID, token)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidToken
	}

	if user.Active {
		if _, err := s.consumeToken(ctx, s.db, user.ID, token); err != nil {
			return err
		}
		return common.ErrInvalidToken
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		consumed, err := s.consumeToken(ctx, tx, user.ID, token)
		if err != nil {
			return err
		}
		if !consumed {
			return common.ErrInvalidToken
		}
		return s.repomanager.Users(tx).Activate(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}

// ResendVerification issues a fresh verification token for an inactive
// account. Earlier tokens stay valid.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.Active {
		return common.ErrAlreadyActive
	}

	token, err := s.recordIssuedToken(ctx, s.db, user.ID)
	if err != nil {
		return err
	}

	s.mailer.Dispatch(ctx, mail.VerificationMessage(s.staticURL, user.Email, token))
	return nil
}

// Login checks credentials and returns a session token. Inactive users may
// log in; owned resources are guarded by RequireActive.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", common.ErrInvalidCredentials
	}
	return s.generateSessionToken(user.ID)
}

// RefreshSession issues a new session token for an authenticated user.
func (s *UserService) RefreshSession(user *models.User) (string, error) {
	return s.generateSessionToken(user.ID)
}

// UpdateAccount changes the password when newPassword is non-empty;
// currentPassword must then match the stored hash.
func (s *UserService) UpdateAccount(ctx context.Context, user *models.User, currentPassword, newPassword string) (*models.User, error) {
	if newPassword == "" {
		return user, nil
	}
	if currentPassword == "" || !s.hasher.Verify(currentPassword, user.HashedPassword) {
		return nil, common.ErrWrongPassword
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("error updating password: %w", err)
	}

	updated := *user
	updated.HashedPassword = hash
	return &updated, nil
}

// DeleteAccount removes the user with all tokens, sets and cards.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User) error {
	deleted, err := s.repomanager.Users(s.db).Delete(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if !deleted {
		s.log.Warn(ctx, "user already gone", "user_id", user.ID)
	}
	return nil
}

// InitiatePasswordReset emails a reset link. Active status is not checked.
func (s *UserService) InitiatePasswordReset(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := s.recordIssuedToken(ctx, s.db, user.ID)
	if err != nil {
		return err
	}

	s.mailer.Dispatch(ctx, mail.ResetMessage(s.staticURL, user.Email, token))
	return nil
}

// ResetPassword consumes a reset token, stores the new password and
// activates the account, since following the link proves the email.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userFromActionToken(ctx, token)
	if err != nil {
		return err
	}

	ok, err := s.isTokenOutstanding(ctx, s.db, user.ID, token)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidToken
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		consumed, err := s.consumeToken(ctx, tx, user.ID, token)
		if err != nil {
			return err
		}
		if !consumed {
			return common.ErrInvalidToken
		}
		users := s.repomanager.Users(tx)
		if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		return users.Activate(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword passes common.ErrPasswordTooLong through and hides any other
// hashing failure behind common.ErrorInternal.
func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return "", err
		}
		return "", common.ErrorInternal
	}
	return hash, nil
}

func (s *UserService) generateSessionToken(userID int64) (string, error) {
	token, err := auth.GenerateToken(strconv.FormatInt(userID, 10), s.jwtSecret, s.sessionTokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// recordIssuedToken signs a single-use token for userID and stores it as
// outstanding.
func (s *UserService) recordIssuedToken(ctx context.Context, db dbx.DBTX, userID int64) (string, error) {
	token, err := auth.GenerateToken(strconv.FormatInt(userID, 10), s.jwtSecret, s.actionTokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.repomanager.Tokens(db).Create(ctx, userID, token); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}
	return token, nil
}

// consumeToken removes token and reports whether it was outstanding.
func (s *UserService) consumeToken(ctx context.Context, db dbx.DBTX, userID int64, token string) (bool, error) {
	ok, err := s.repomanager.Tokens(db).Delete(ctx, userID, token)
	if err != nil {
		return false, fmt.Errorf("error deleting token: %w", err)
	}
	return ok, nil
}

func (s *UserService) isTokenOutstanding(ctx context.Context, db dbx.DBTX, userID int64, token string) (bool, error) {
	ok, err := s.repomanager.Tokens(db).Exists(ctx, userID, token)
	if err != nil {
		return false, fmt.Errorf("error searching token: %w", err)
	}
	return ok, nil
}

// userFromActionToken decodes a verification or reset token and loads its
// subject. A missing user is reported as an invalid token.
func (s *UserService) userFromActionToken(ctx context.Context, token string) (*models.User, error) {
	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/server/auth"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
)

// ResolveSession maps a session token to its user. A missing, unverifiable
// or expired token and a deleted user all yield common.ErrUnauthenticated.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// RequireActive passes user through unchanged if the account is verified.
func RequireActive(user *models.User) (*models.User, error) {
	if !user.Active {
		return nil, common.ErrInactive
	}
	return user, nil
}

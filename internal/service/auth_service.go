package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

var ErrCredentialsRequired = errors.New("email and password are required")

type AuthService struct {
	workspaces *Workspaces
	logger     *zap.Logger
}

func NewAuthService(workspaces *Workspaces, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{workspaces: workspaces, logger: logger}
}

// Login signs in against the backend inside a new workspace. The workspace
// is returned even on failure so its notifications can be shown; it is
// only registered when the login succeeds.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Workspace, models.User, error) {
	if email == "" || password == "" {
		return nil, models.User{}, ErrCredentialsRequired
	}
	ws := s.workspaces.Create()
	user, err := ws.Client.Login(ctx, email, password)
	if err != nil {
		s.workspaces.Remove(ws.ID)
		return ws, models.User{}, err
	}
	s.logger.Info("operator signed in", zap.String("workspace", ws.ID), zap.String("email", user.Email))
	return ws, user, nil
}

// Logout clears the backend credentials and forgets the workspace.
func (s *AuthService) Logout(ctx context.Context, ws *Workspace) error {
	s.workspaces.Remove(ws.ID)
	if err := ws.Client.Logout(ctx); err != nil {
		return err
	}
	s.logger.Info("operator signed out", zap.String("workspace", ws.ID))
	return nil
}

// Expire forgets a workspace whose backend session ended.
func (s *AuthService) Expire(ctx context.Context, ws *Workspace) {
	s.workspaces.Remove(ws.ID)
	if err := ws.Session.Invalidate(ctx); err != nil {
		s.logger.Warn("clearing expired workspace failed", zap.String("workspace", ws.ID), zap.Error(err))
	}
}

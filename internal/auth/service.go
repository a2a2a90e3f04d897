// Package auth はロールベースのログインフロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/vetalert/vetalert/internal/model"
	"github.com/vetalert/vetalert/internal/repository"
	"github.com/vetalert/vetalert/internal/security"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge    int    // セッション有効期間（秒）
	RescueAccessCode string // NGO共有アクセスコード
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	sessionRepo repository.SessionRepository
	sanitizer   security.InputSanitizerService
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	sessionRepo repository.SessionRepository,
	sanitizer security.InputSanitizerService,
	config ServiceConfig,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		sanitizer:   sanitizer,
		config:      config,
	}
}

// LoginAsCitizen は市民セッションを発行する。
// 認証情報は不要で、表示名は任意（空でもログイン成功）。
func (s *Service) LoginAsCitizen(ctx context.Context, name string) (*model.Session, error) {
	session, err := s.createSession(ctx, model.RoleCitizen, s.sanitizer.Sanitize(name), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create citizen session: %w", err)
	}

	slog.Info("citizen logged in", slog.String("session_id", session.ID))
	return session, nil
}

// LoginAsRescuer はNGOアクセスコードを検証し、レスキュアーセッションを発行する。
// コード比較は定数時間で行う。団体名は任意。
func (s *Service) LoginAsRescuer(ctx context.Context, org, code string) (*model.Session, error) {
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.config.RescueAccessCode)) != 1 {
		slog.Warn("rescuer login rejected: access code mismatch")
		return nil, model.NewInvalidAccessCodeError()
	}

	session, err := s.createSession(ctx, model.RoleRescuer, "", s.sanitizer.Sanitize(org))
	if err != nil {
		return nil, fmt.Errorf("failed to create rescuer session: %w", err)
	}

	slog.Info("rescuer logged in",
		slog.String("session_id", session.ID),
		slog.String("org", session.Org),
	)
	return session, nil
}

// Logout はセッションを破棄する。冪等であり、存在しない・期限切れの
// セッションIDや空のセッションIDでも成功する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("logged out", slog.String("session_id", sessionID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, role model.Role, name, org string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		Role:      role,
		Name:      name,
		Org:       org,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

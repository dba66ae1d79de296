package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
	"github.com/Ismaelg12/timeflow/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperrors.New(apperrors.KindValidation, "InvalidCredentials", "用户名或密码错误")
	ErrUserNotFound       = apperrors.New(apperrors.KindNotFound, "UserNotFound", "用户不存在")
	ErrUserInactive       = apperrors.New(apperrors.KindForbidden, "UserInactive", "用户已停用")
	ErrInvalidToken       = apperrors.New(apperrors.KindValidation, "InvalidToken", "Token 无效或已过期")
)

// TokenBlacklist Token 黑名单（由 *redis.Client 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 用 Refresh Token 换新 Token 对，旧 Refresh Token 作废
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout 将当前 Access Token 加入黑名单
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，blacklist 可为 nil（不启用 Redis 时）
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. 生成 Token 对
	return s.issue(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenRefresh {
		return nil, ErrInvalidToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("查询 Token 黑名单失败", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("查询用户失败", zap.String("id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 旧 Refresh Token 作废
	if s.blacklist != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL(time.Now())); err != nil {
			s.logger.Error("作废 RefreshToken 失败", zap.Error(err))
			return nil, err
		}
	}

	return s.issue(ctx, user)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL(time.Now())); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user, s.linkedWorkerID(ctx, user.UserID))
	return &resp, nil
}

// issue 签发 Token 对，绑定员工档案的用户携带 worker_id
func (s *authService) issue(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	workerID := s.linkedWorkerID(ctx, user.UserID)

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, workerID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, workerID)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user, workerID),
	}, nil
}

func (s *authService) linkedWorkerID(ctx context.Context, userID string) string {
	w, err := s.repo.Worker.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询绑定员工失败", zap.String("user_id", userID), zap.Error(err))
		}
		return ""
	}
	return w.WorkerID
}

func toUserResponse(u *model.User, workerID string) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		WorkerID: workerID,
	}
}

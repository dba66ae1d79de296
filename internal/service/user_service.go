package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUsernameTaken  = apperrors.New(apperrors.KindStorageConflict, "UsernameTaken", "用户名已被占用")
	ErrUserSelfChange = apperrors.New(apperrors.KindForbidden, "Forbidden", "不能停用自己")
)

// UserService 登录身份业务接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.UserResponse, error)
	ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	// 检查用户名唯一性
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建用户", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	resp := toUserResponse(user, "")
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, s.workerID(ctx, id))
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i], ""))
	}
	return result, total, nil
}

// ────────────────────── SetActive ──────────────────────

func (s *userService) SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.UserResponse, error) {
	if id == callerID && !active {
		return nil, ErrUserSelfChange
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user, s.workerID(ctx, id))
	return &resp, nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 生成 10 位随机密码（保证包含字母和数字）
	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) workerID(ctx context.Context, userID string) string {
	if w, err := s.repo.Worker.GetByUserID(ctx, userID); err == nil {
		return w.WorkerID
	}
	return ""
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// 打乱前两位的固定位置
	for i := length - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		result[i], result[j] = result[j], result[i]
	}
	return string(result), nil
}

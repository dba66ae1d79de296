package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ── 工作地点模块业务错误 ──

var (
	ErrCNPJAlreadyRegistered = apperrors.New(apperrors.KindStorageConflict, "CNPJAlreadyRegistered", "CNPJ 已登记")
)

// EstablishmentService 工作地点业务接口
type EstablishmentService interface {
	Create(ctx context.Context, req *dto.CreateEstablishmentRequest, callerID string) (*dto.EstablishmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EstablishmentResponse, error)
	List(ctx context.Context) ([]dto.EstablishmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEstablishmentRequest, callerID string) (*dto.EstablishmentResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type establishmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEstablishmentService 创建 EstablishmentService 实例
func NewEstablishmentService(repo *repository.Repository, logger *zap.Logger) EstablishmentService {
	return &establishmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *establishmentService) Create(ctx context.Context, req *dto.CreateEstablishmentRequest, callerID string) (*dto.EstablishmentResponse, error) {
	est := &model.Establishment{
		Name:          strings.TrimSpace(req.Name),
		Address:       req.Address,
		CNPJ:          strings.TrimSpace(req.CNPJ),
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		AllowedRadius: req.AllowedRadius,
	}
	if est.AllowedRadius <= 0 {
		est.AllowedRadius = model.DefaultAllowedRadius
	}
	est.CreatedBy = &callerID
	est.UpdatedBy = &callerID

	if err := s.repo.Establishment.Create(ctx, est); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, ErrCNPJAlreadyRegistered
		}
		s.logger.Error("创建工作地点失败", zap.Error(err))
		return nil, err
	}

	return toEstablishmentResponse(est), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *establishmentService) GetByID(ctx context.Context, id string) (*dto.EstablishmentResponse, error) {
	est, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEstablishmentResponse(est), nil
}

// ────────────────────── List ──────────────────────

func (s *establishmentService) List(ctx context.Context) ([]dto.EstablishmentResponse, error) {
	list, err := s.repo.Establishment.List(ctx)
	if err != nil {
		s.logger.Error("列出工作地点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EstablishmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEstablishmentResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *establishmentService) Update(ctx context.Context, id string, req *dto.UpdateEstablishmentRequest, callerID string) (*dto.EstablishmentResponse, error) {
	est, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		est.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		est.Address = *req.Address
	}
	if req.Latitude != nil {
		est.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		est.Longitude = *req.Longitude
	}
	if req.AllowedRadius != nil {
		est.AllowedRadius = *req.AllowedRadius
	}
	est.UpdatedBy = &callerID

	if err := s.repo.Establishment.Update(ctx, est); err != nil {
		s.logger.Error("更新工作地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toEstablishmentResponse(est), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除；历史打卡记录仍保留对该地点的引用
func (s *establishmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Establishment.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除工作地点失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("删除工作地点", zap.String("establishment_id", id), zap.String("by", callerID))
	return nil
}

func (s *establishmentService) get(ctx context.Context, id string) (*model.Establishment, error) {
	est, err := s.repo.Establishment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("查询工作地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return est, nil
}

func toEstablishmentResponse(est *model.Establishment) *dto.EstablishmentResponse {
	return &dto.EstablishmentResponse{
		ID:            est.EstablishmentID,
		Name:          est.Name,
		Address:       est.Address,
		CNPJ:          est.CNPJ,
		Latitude:      est.Latitude,
		Longitude:     est.Longitude,
		AllowedRadius: est.AllowedRadius,
		CreatedAt:     est.CreatedAt.Format(dateTimeLayout),
		UpdatedAt:     est.UpdatedAt.Format(dateTimeLayout),
	}
}

package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/cpf"
)

const (
	receiptPrefix = "TF-"
	qrSize        = 256
)

// ReceiptCode 打卡凭证编号：TF- 加记录 ID 前 8 位十六进制（大写）
func ReceiptCode(eventID string) string {
	hex := strings.ReplaceAll(eventID, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return receiptPrefix + strings.ToUpper(hex)
}

// ReceiptService 打卡凭证业务接口
type ReceiptService interface {
	// Receipt 生成凭证，withQR 为 true 时附带二维码 PNG
	Receipt(ctx context.Context, eventID string, withQR bool) (*dto.ReceiptResponse, error)
	// Validate 扫码校验凭证
	Validate(ctx context.Context, eventID string) (*dto.ReceiptValidationResponse, error)
}

type receiptService struct {
	repo        *repository.Repository
	clock       clock.Clock
	companyName string
	baseURL     string
	logger      *zap.Logger
}

// NewReceiptService 创建 ReceiptService 实例
func NewReceiptService(repo *repository.Repository, clk clock.Clock, companyName, baseURL string, logger *zap.Logger) ReceiptService {
	return &receiptService{
		repo:        repo,
		clock:       clk,
		companyName: companyName,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      logger,
	}
}

// ────────────────────── Receipt ──────────────────────

func (s *receiptService) Receipt(ctx context.Context, eventID string, withQR bool) (*dto.ReceiptResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReceiptResponse{
		Code:                  ReceiptCode(event.EventID),
		CompanyName:           s.companyName,
		Date:                  event.Day().Format("02/01/2006"),
		Time:                  event.Time.String(),
		Type:                  string(event.Type),
		TypeLabel:             eventTypeLabel(ctx, event.Type),
		Latitude:              event.Latitude,
		Longitude:             event.Longitude,
		WithinTolerance:       event.WithinTolerance,
		LateMinutes:           event.LateMinutes,
		EarlyDepartureMinutes: event.EarlyDepartureMinutes,
		ManualAdjustment:      event.ManualAdjustment,
		ServerTimestamp:       event.CreatedAt.In(s.clock.Location()).Format(dateTimeLayout),
		ValidationURL:         s.validationURL(event.EventID),
	}
	if event.Worker != nil {
		resp.WorkerName = event.Worker.FullName()
		resp.CPF = cpf.Format(event.Worker.CPF)
	}
	if event.Establishment != nil {
		resp.EstablishmentName = event.Establishment.Name
		resp.CNPJ = event.Establishment.CNPJ
		resp.AllowedRadius = event.Establishment.AllowedRadius
	}

	if withQR {
		payload, err := json.Marshal(resp)
		if err != nil {
			return nil, err
		}
		png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
		if err != nil {
			s.logger.Error("生成凭证二维码失败", zap.String("event_id", eventID), zap.Error(err))
			return nil, err
		}
		resp.QRCodePNG = base64.StdEncoding.EncodeToString(png)
	}
	return resp, nil
}

// ────────────────────── Validate ──────────────────────

func (s *receiptService) Validate(ctx context.Context, eventID string) (*dto.ReceiptValidationResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReceiptValidationResponse{
		Valid: true,
		Code:  ReceiptCode(event.EventID),
		Date:  event.Day().Format("02/01/2006"),
		Time:  event.Time.String(),
		Type:  eventTypeLabel(ctx, event.Type),
	}
	if event.Worker != nil {
		resp.WorkerName = event.Worker.FullName()
	}
	if event.Establishment != nil {
		resp.EstablishmentName = event.Establishment.Name
	}
	return resp, nil
}

func (s *receiptService) validationURL(eventID string) string {
	return s.baseURL + "/api/v1/receipts/" + eventID + "/validate"
}

func (s *receiptService) getEvent(ctx context.Context, id string) (*model.AttendanceEvent, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

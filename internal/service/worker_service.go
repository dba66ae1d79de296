package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/cpf"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ── 员工模块业务错误 ──

var (
	ErrCPFAlreadyRegistered = apperrors.New(apperrors.KindStorageConflict, "CPFAlreadyRegistered", "CPF 已登记")
	ErrUserAlreadyLinked    = apperrors.New(apperrors.KindStorageConflict, "StorageConflict", "该登录身份已绑定员工档案")
)

// WorkerService 员工档案业务接口
type WorkerService interface {
	// Register 登记员工，登记后为停用状态
	Register(ctx context.Context, req *dto.RegisterWorkerRequest, callerID string) (*dto.WorkerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error)
	List(ctx context.Context, req *dto.WorkerListRequest) ([]dto.WorkerResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkerRequest, callerID string) (*dto.WorkerResponse, error)
	// SetActive 启用或停用；员工档案只能停用，不能删除
	SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.WorkerResponse, error)
	// FindActiveByCPF 接受带格式或纯数字的 CPF
	FindActiveByCPF(ctx context.Context, raw string) (*dto.WorkerResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportWorkerRow, error)
	ImportWorkers(ctx context.Context, rows []ImportWorkerRow, establishmentID, callerID string) (*dto.ImportWorkerResponse, error)
}

// ImportWorkerRow Excel 导入解析后的单行数据
type ImportWorkerRow struct {
	Row        int
	FirstName  string
	LastName   string
	CPF        string
	Email      string
	Profession string
	EntryTime  string
	ExitTime   string
}

type workerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkerService 创建 WorkerService 实例
func NewWorkerService(repo *repository.Repository, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *workerService) Register(ctx context.Context, req *dto.RegisterWorkerRequest, callerID string) (*dto.WorkerResponse, error) {
	canonical, err := cpf.Normalize(req.CPF)
	if err != nil || !cpf.Valid(canonical) {
		return nil, ErrInvalidCPF
	}
	if _, err := s.repo.Worker.GetByCPF(ctx, canonical); err == nil {
		return nil, ErrCPFAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("按 CPF 查询员工失败", zap.Error(err))
		return nil, err
	}

	w := &model.Worker{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		CPF:              canonical,
		Email:            req.Email,
		Phone:            req.Phone,
		Profession:       req.Profession,
		ToleranceMinutes: model.DefaultToleranceMinutes,
		DailyMinutes:     req.DailyMinutes,
		WeeklyMinutes:    req.WeeklyMinutes,
		Active:           false,
	}
	if req.ToleranceMinutes != nil {
		w.ToleranceMinutes = *req.ToleranceMinutes
	}
	if w.EntryTime, err = optionalClock(req.EntryTime); err != nil {
		return nil, err
	}
	if w.ExitTime, err = optionalClock(req.ExitTime); err != nil {
		return nil, err
	}
	if req.EstablishmentID != "" {
		est, err := s.getEstablishment(ctx, req.EstablishmentID)
		if err != nil {
			return nil, err
		}
		w.EstablishmentID = &est.EstablishmentID
		w.Establishment = est
	}
	if req.UserID != "" {
		if err := s.checkLinkableUser(ctx, req.UserID); err != nil {
			return nil, err
		}
		w.UserID = &req.UserID
	}
	w.CreatedBy = &callerID
	w.UpdatedBy = &callerID

	if err := s.repo.Worker.Create(ctx, w); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, ErrCPFAlreadyRegistered
		}
		s.logger.Error("登记员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("登记员工", zap.String("worker_id", w.WorkerID))
	return toWorkerResponse(w), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *workerService) GetByID(ctx context.Context, id string) (*dto.WorkerResponse, error) {
	w, err := s.getWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkerResponse(w), nil
}

// ────────────────────── List ──────────────────────

func (s *workerService) List(ctx context.Context, req *dto.WorkerListRequest) ([]dto.WorkerResponse, int64, error) {
	filter := repository.WorkerFilter{
		EstablishmentID: req.EstablishmentID,
		Active:          req.Active,
		Keyword:         strings.TrimSpace(req.Keyword),
	}
	// CPF 关键字去掉格式符号
	if digits, err := cpf.Normalize(filter.Keyword); err == nil {
		filter.Keyword = digits
	}

	workers, total, err := s.repo.Worker.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		result = append(result, *toWorkerResponse(&workers[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *workerService) Update(ctx context.Context, id string, req *dto.UpdateWorkerRequest, callerID string) (*dto.WorkerResponse, error) {
	w, err := s.getWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Version != req.Version {
		return nil, apperrors.ErrOptimisticLock
	}

	if req.FirstName != nil {
		w.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		w.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		w.Email = *req.Email
	}
	if req.Phone != nil {
		w.Phone = *req.Phone
	}
	if req.Profession != nil {
		w.Profession = *req.Profession
	}
	if req.EntryTime != nil {
		if w.EntryTime, err = optionalClock(*req.EntryTime); err != nil {
			return nil, err
		}
	}
	if req.ExitTime != nil {
		if w.ExitTime, err = optionalClock(*req.ExitTime); err != nil {
			return nil, err
		}
	}
	if req.ToleranceMinutes != nil {
		w.ToleranceMinutes = *req.ToleranceMinutes
	}
	if req.DailyMinutes != nil {
		w.DailyMinutes = req.DailyMinutes
	}
	if req.WeeklyMinutes != nil {
		w.WeeklyMinutes = req.WeeklyMinutes
	}
	if req.EstablishmentID != nil {
		if *req.EstablishmentID == "" {
			w.EstablishmentID, w.Establishment = nil, nil
		} else {
			est, err := s.getEstablishment(ctx, *req.EstablishmentID)
			if err != nil {
				return nil, err
			}
			w.EstablishmentID, w.Establishment = &est.EstablishmentID, est
		}
	}
	w.UpdatedBy = &callerID

	if err := s.repo.Worker.Update(ctx, w); err != nil {
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toWorkerResponse(w), nil
}

// ────────────────────── SetActive ──────────────────────

func (s *workerService) SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.WorkerResponse, error) {
	w, err := s.getWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Active == active {
		return toWorkerResponse(w), nil
	}

	w.Active = active
	w.UpdatedBy = &callerID
	if err := s.repo.Worker.Update(ctx, w); err != nil {
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("更新员工状态失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("员工状态变更", zap.String("worker_id", id), zap.Bool("active", active))
	return toWorkerResponse(w), nil
}

// ────────────────────── FindActiveByCPF ──────────────────────

func (s *workerService) FindActiveByCPF(ctx context.Context, raw string) (*dto.WorkerResponse, error) {
	w, err := findActiveByCPF(ctx, s.repo, s.logger, raw)
	if err != nil {
		return nil, err
	}
	return toWorkerResponse(w), nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = apperrors.New(apperrors.KindValidation, "InvalidRequest", "Excel 文件无数据行（第一行为表头）")
	ErrImportTooManyRows = apperrors.New(apperrors.KindValidation, "InvalidRequest", fmt.Sprintf("数据行数超过上限 %d 行", maxImportRows))
	ErrImportBadHeader   = apperrors.New(apperrors.KindValidation, "InvalidRequest", "Excel 表头缺少必要列（nome/sobrenome/cpf）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *workerService) ParseImportFile(reader io.Reader) ([]ImportWorkerRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["first_name"] < 0 || colIndex["last_name"] < 0 || colIndex["cpf"] < 0 {
		return nil, ErrImportBadHeader
	}

	get := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportWorkerRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportWorkerRow{
			Row:        i + 1,
			FirstName:  get(r, "first_name"),
			LastName:   get(r, "last_name"),
			CPF:        get(r, "cpf"),
			Email:      get(r, "email"),
			Profession: get(r, "profession"),
			EntryTime:  get(r, "entry_time"),
			ExitTime:   get(r, "exit_time"),
		}
		// 跳过全空行
		if item.FirstName == "" && item.LastName == "" && item.CPF == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"first_name": -1,
		"last_name":  -1,
		"cpf":        -1,
		"email":      -1,
		"profession": -1,
		"entry_time": -1,
		"exit_time":  -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "nome", "first_name":
			idx["first_name"] = i
		case "sobrenome", "last_name":
			idx["last_name"] = i
		case "cpf":
			idx["cpf"] = i
		case "email", "e-mail":
			idx["email"] = i
		case "profissão", "profissao", "profession":
			idx["profession"] = i
		case "entrada", "entry_time":
			idx["entry_time"] = i
		case "saída", "saida", "exit_time":
			idx["exit_time"] = i
		}
	}
	return idx
}

// ────────────────────── ImportWorkers ──────────────────────

func (s *workerService) ImportWorkers(ctx context.Context, rows []ImportWorkerRow, establishmentID, callerID string) (*dto.ImportWorkerResponse, error) {
	resp := &dto.ImportWorkerResponse{Total: len(rows)}

	var estID *string
	if establishmentID != "" {
		est, err := s.getEstablishment(ctx, establishmentID)
		if err != nil {
			return nil, err
		}
		estID = &est.EstablishmentID
	}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportWorkerError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	var valid []*model.Worker
	var validRows []int
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.FirstName == "" || row.LastName == "" || row.CPF == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		canonical, err := cpf.Normalize(row.CPF)
		if err != nil || !cpf.Valid(canonical) {
			fail(row.Row, fmt.Sprintf("CPF 无效: %s", row.CPF))
			continue
		}
		if seen[canonical] {
			fail(row.Row, fmt.Sprintf("文件内 CPF 重复: %s", row.CPF))
			continue
		}
		if _, err := s.repo.Worker.GetByCPF(ctx, canonical); err == nil {
			fail(row.Row, fmt.Sprintf("CPF 已登记: %s", row.CPF))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("按 CPF 查询员工失败", zap.Error(err))
			return nil, err
		}
		entry, err := optionalClock(row.EntryTime)
		if err != nil {
			fail(row.Row, fmt.Sprintf("上班时间无效: %s", row.EntryTime))
			continue
		}
		exit, err := optionalClock(row.ExitTime)
		if err != nil {
			fail(row.Row, fmt.Sprintf("下班时间无效: %s", row.ExitTime))
			continue
		}

		seen[canonical] = true
		w := &model.Worker{
			FirstName:        row.FirstName,
			LastName:         row.LastName,
			CPF:              canonical,
			Email:            row.Email,
			Profession:       row.Profession,
			EstablishmentID:  estID,
			EntryTime:        entry,
			ExitTime:         exit,
			ToleranceMinutes: model.DefaultToleranceMinutes,
		}
		w.CreatedBy = &callerID
		w.UpdatedBy = &callerID
		valid = append(valid, w)
		validRows = append(validRows, row.Row)
	}

	// 第二阶段：在事务中批量登记所有通过校验的员工
	if len(valid) > 0 {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			s.logger.Error("开启事务失败", zap.Error(err))
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				if tx != nil {
					tx.Rollback()
				}
				panic(r)
			}
		}()

		txRepo := s.repo.WithTx(tx)

		for i, w := range valid {
			if err := txRepo.Worker.Create(ctx, w); err != nil {
				// 事务中任一写入失败则全部回滚
				if tx != nil {
					tx.Rollback()
				}
				s.logger.Error("导入员工写入失败，事务回滚", zap.Int("row", validRows[i]), zap.Error(err))
				return nil, fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", validRows[i], err)
			}
			resp.Success++
		}

		if tx != nil {
			if err := tx.Commit().Error; err != nil {
				s.logger.Error("提交事务失败", zap.Error(err))
				return nil, err
			}
		}
	}

	s.logger.Info("批量导入员工", zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *workerService) getWorker(ctx context.Context, id string) (*model.Worker, error) {
	w, err := s.repo.Worker.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return w, nil
}

func (s *workerService) getEstablishment(ctx context.Context, id string) (*model.Establishment, error) {
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

// checkLinkableUser 登录身份必须存在且未绑定其他员工
func (s *workerService) checkLinkableUser(ctx context.Context, userID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return err
	}
	if _, err := s.repo.Worker.GetByUserID(ctx, userID); err == nil {
		return ErrUserAlreadyLinked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// optionalClock 空串表示未设置
func optionalClock(s string) (*datatypes.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseClock(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toWorkerResponse(w *model.Worker) *dto.WorkerResponse {
	resp := &dto.WorkerResponse{
		ID:               w.WorkerID,
		FirstName:        w.FirstName,
		LastName:         w.LastName,
		FullName:         w.FullName(),
		CPF:              w.CPF,
		Email:            w.Email,
		Phone:            w.Phone,
		Profession:       w.Profession,
		EntryTime:        formatClock(w.EntryTime),
		ExitTime:         formatClock(w.ExitTime),
		ToleranceMinutes: w.ToleranceMinutes,
		DailyMinutes:     w.DailyMinutes,
		WeeklyMinutes:    w.WeeklyMinutes,
		Shift24h:         w.Is24hShift(),
		Active:           w.Active,
		Version:          w.Version,
		CreatedAt:        w.CreatedAt.Format(dateTimeLayout),
	}
	if w.UserID != nil {
		resp.UserID = *w.UserID
	}
	if w.EstablishmentID != nil {
		resp.EstablishmentID = *w.EstablishmentID
	}
	if w.Establishment != nil {
		resp.EstablishmentName = w.Establishment.Name
	}
	return resp
}

package attendance

import (
	"strings"
	"time"

	"github.com/Ismaelg12/timeflow/internal/model"
	apperrors "github.com/Ismaelg12/timeflow/pkg/errors"
)

// ManualEditWindow 补录记录可修改、删除的期限
const ManualEditWindow = 24 * time.Hour

// 补录理由代码
const (
	ReasonForgot         = "ESQUECIMENTO"
	ReasonSystemProblem  = "PROBLEMA_SISTEMA"
	ReasonEmergency      = "EMERGENCIA"
	ReasonMeeting        = "REUNIAO"
	ReasonExternal       = "ATIVIDADE_EXTERNA"
	ReasonEquipmentFault = "FALHA_EQUIPAMENTO"
	ReasonTraining       = "CAPACITACAO"
	ReasonOther          = "OUTRO"
)

// ReasonCodes 全部补录理由代码，顺序即展示顺序
var ReasonCodes = []string{
	ReasonForgot,
	ReasonSystemProblem,
	ReasonEmergency,
	ReasonMeeting,
	ReasonExternal,
	ReasonEquipmentFault,
	ReasonTraining,
	ReasonOther,
}

var (
	ErrJustificationRequired            = apperrors.New(apperrors.KindSequence, "JustificationRequired", "必须填写补录理由")
	ErrInvalidJustificationCode         = apperrors.New(apperrors.KindSequence, "InvalidJustificationCode", "补录理由代码无效")
	ErrJustificationDescriptionRequired = apperrors.New(apperrors.KindSequence, "JustificationDescriptionRequired", "理由为其他时必须填写说明")
)

// Justification 补录理由
type Justification struct {
	Code        string
	Description string
}

// Validate 代码必须属于固定集合；OUTRO 必须附带说明
func (j Justification) Validate() error {
	code := strings.TrimSpace(j.Code)
	if code == "" {
		return ErrJustificationRequired
	}
	known := false
	for _, c := range ReasonCodes {
		if c == code {
			known = true
			break
		}
	}
	if !known {
		return ErrInvalidJustificationCode
	}
	if code == ReasonOther && strings.TrimSpace(j.Description) == "" {
		return ErrJustificationDescriptionRequired
	}
	return nil
}

// Text 写入打卡记录的理由文本
func (j Justification) Text() string {
	if d := strings.TrimSpace(j.Description); d != "" {
		return j.Code + ": " + d
	}
	return j.Code
}

// CanEdit 补录记录在创建后 24 小时内可修改、删除
func CanEdit(e *model.AttendanceEvent, now time.Time) bool {
	return e.ManualAdjustment && now.Sub(e.CreatedAt) < ManualEditWindow
}

package dto

// ── 补录模块 DTO ──

// CreateManualExitRequest 补录下班请求
type CreateManualExitRequest struct {
	WorkerID    string `json:"worker_id"   binding:"required,uuid"`
	Date        string `json:"date"        binding:"required,datetime=2006-01-02"`
	Time        string `json:"time"        binding:"required,datetime=15:04"`
	ReasonCode  string `json:"reason_code" binding:"max=30"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Notes       string `json:"notes"       binding:"omitempty,max=1000"`
}

// UpdateManualEventRequest 修改补录记录请求
type UpdateManualEventRequest struct {
	Time  *string `json:"time"  binding:"omitempty,datetime=15:04"`
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

// ManualAdjustmentResponse 补录结果
type ManualAdjustmentResponse struct {
	AdjustmentID string        `json:"adjustment_id"`
	ReasonCode   string        `json:"reason_code"`
	ReasonLabel  string        `json:"reason_label"`
	Description  string        `json:"description,omitempty"`
	AdjustedBy   string        `json:"adjusted_by"`
	Confirmed    bool          `json:"confirmed"`
	ConfirmedAt  string        `json:"confirmed_at,omitempty"`
	CreatedAt    string        `json:"created_at"`
	Event        EventResponse `json:"event"`
}

// JustificationOption 补录理由选项
type JustificationOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

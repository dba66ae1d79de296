package dto

// ── 员工档案模块 DTO ──

// RegisterWorkerRequest 登记员工请求（登记后为停用状态）
type RegisterWorkerRequest struct {
	FirstName        string `json:"first_name"        binding:"required,max=100"`
	LastName         string `json:"last_name"         binding:"required,max=100"`
	CPF              string `json:"cpf"               binding:"required,cpf"`
	Email            string `json:"email"             binding:"omitempty,email"`
	Phone            string `json:"phone"             binding:"omitempty,max=20"`
	Profession       string `json:"profession"        binding:"omitempty,max=100"`
	EstablishmentID  string `json:"establishment_id"  binding:"omitempty,uuid"`
	EntryTime        string `json:"entry_time"        binding:"omitempty,datetime=15:04"`
	ExitTime         string `json:"exit_time"         binding:"omitempty,datetime=15:04"`
	ToleranceMinutes *int   `json:"tolerance_minutes" binding:"omitempty,min=0,max=240"`
	DailyMinutes     *int   `json:"daily_minutes"     binding:"omitempty,min=1,max=1440"`
	WeeklyMinutes    *int   `json:"weekly_minutes"    binding:"omitempty,min=1,max=10080"`
	UserID           string `json:"user_id"           binding:"omitempty,uuid"`
}

// UpdateWorkerRequest 更新员工档案请求，Version 用于乐观锁
type UpdateWorkerRequest struct {
	Version          int     `json:"version"           binding:"required,min=1"`
	FirstName        *string `json:"first_name"        binding:"omitempty,max=100"`
	LastName         *string `json:"last_name"         binding:"omitempty,max=100"`
	Email            *string `json:"email"             binding:"omitempty,email"`
	Phone            *string `json:"phone"             binding:"omitempty,max=20"`
	Profession       *string `json:"profession"        binding:"omitempty,max=100"`
	EstablishmentID  *string `json:"establishment_id"  binding:"omitempty,uuid"`
	EntryTime        *string `json:"entry_time"        binding:"omitempty,datetime=15:04"`
	ExitTime         *string `json:"exit_time"         binding:"omitempty,datetime=15:04"`
	ToleranceMinutes *int    `json:"tolerance_minutes" binding:"omitempty,min=0,max=240"`
	DailyMinutes     *int    `json:"daily_minutes"     binding:"omitempty,min=1,max=1440"`
	WeeklyMinutes    *int    `json:"weekly_minutes"    binding:"omitempty,min=1,max=10080"`
}

// WorkerListRequest 员工列表查询参数
type WorkerListRequest struct {
	PaginationRequest
	EstablishmentID string `form:"establishment_id" binding:"omitempty,uuid"`
	Active          *bool  `form:"active"`
	Keyword         string `form:"keyword"          binding:"omitempty,max=50"`
}

// WorkerResponse 员工档案响应
type WorkerResponse struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	CPF               string `json:"cpf"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Profession        string `json:"profession,omitempty"`
	EstablishmentID   string `json:"establishment_id,omitempty"`
	EstablishmentName string `json:"establishment_name,omitempty"`
	EntryTime         string `json:"entry_time,omitempty"`
	ExitTime          string `json:"exit_time,omitempty"`
	ToleranceMinutes  int    `json:"tolerance_minutes"`
	DailyMinutes      *int   `json:"daily_minutes,omitempty"`
	WeeklyMinutes     *int   `json:"weekly_minutes,omitempty"`
	Shift24h          bool   `json:"shift_24h"`
	Active            bool   `json:"active"`
	Version           int    `json:"version"`
	CreatedAt         string `json:"created_at"`
}

// WorkerBrief 员工简要信息
type WorkerBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CPF  string `json:"cpf"`
}

// ImportWorkerError 导入失败的行
type ImportWorkerError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportWorkerResponse 批量导入结果
type ImportWorkerResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Errors  []ImportWorkerError `json:"errors,omitempty"`
}

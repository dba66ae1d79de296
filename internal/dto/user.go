package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建登录身份请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Name     string `json:"name"     binding:"required,min=2,max=150"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin staff worker"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	WorkerID string `json:"worker_id,omitempty"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// SetUserActiveRequest 启用/停用登录身份
type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

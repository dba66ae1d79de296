package dto

// ── 工作地点模块 DTO ──

// CreateEstablishmentRequest 创建工作地点请求
type CreateEstablishmentRequest struct {
	Name          string   `json:"name"           binding:"required,min=2,max=200"`
	Address       string   `json:"address"        binding:"omitempty,max=500"`
	CNPJ          string   `json:"cnpj"           binding:"required,min=14,max=18"`
	Latitude      *float64 `json:"latitude"       binding:"required,min=-90,max=90"`
	Longitude     *float64 `json:"longitude"      binding:"required,min=-180,max=180"`
	AllowedRadius int      `json:"allowed_radius" binding:"omitempty,min=1,max=100000"`
}

// UpdateEstablishmentRequest 更新工作地点请求
type UpdateEstablishmentRequest struct {
	Name          *string  `json:"name"           binding:"omitempty,min=2,max=200"`
	Address       *string  `json:"address"        binding:"omitempty,max=500"`
	Latitude      *float64 `json:"latitude"       binding:"omitempty,min=-90,max=90"`
	Longitude     *float64 `json:"longitude"      binding:"omitempty,min=-180,max=180"`
	AllowedRadius *int     `json:"allowed_radius" binding:"omitempty,min=1,max=100000"`
}

// EstablishmentResponse 工作地点响应
type EstablishmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	CNPJ          string  `json:"cnpj"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AllowedRadius int     `json:"allowed_radius"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

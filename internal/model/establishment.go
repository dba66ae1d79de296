package model

// DefaultAllowedRadius 新建工作地点的默认允许半径（米）
const DefaultAllowedRadius = 100

// Establishment 工作地点表，对应 establishments
type Establishment struct {
	EstablishmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"establishment_id"`
	Name            string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Address         string  `gorm:"type:text"                                      json:"address,omitempty"`
	CNPJ            string  `gorm:"type:varchar(18);not null;uniqueIndex"          json:"cnpj"`
	Latitude        float64 `gorm:"not null"                                       json:"latitude"`
	Longitude       float64 `gorm:"not null"                                       json:"longitude"`
	AllowedRadius   int     `gorm:"not null;default:100"                           json:"allowed_radius"` // 米
	SoftDeleteModel
}

// TableName 指定表名
func (Establishment) TableName() string { return "establishments" }

package model

// 角色
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleWorker = "worker"
)

// User 登录身份表，对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"username"`
	Name         string `gorm:"type:varchar(150);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

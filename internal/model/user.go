package model

// User 用户表 — 对应 users
type User struct {
	ID             int    `gorm:"primaryKey"                          json:"id"`
	EmployeeID     string `gorm:"type:varchar(10);not null;unique"    json:"employee_id"`
	Name           string `gorm:"type:varchar(100);not null"          json:"name"`
	DepartmentName string `gorm:"type:varchar(50);not null"           json:"department_name"`
	Position       string `gorm:"type:varchar(50);not null"           json:"position"`
	Email          string `gorm:"type:varchar(100)"                   json:"email,omitempty"`
	PasswordHash   string `gorm:"type:text;not null"                  json:"-"`
	RoleLevel      int    `gorm:"not null;default:1"                  json:"role_level"` // 1=普通成员 | >=2 审批者
	DefaultUnit    string `gorm:"type:varchar(100)"                   json:"default_unit,omitempty"`
	SoundEnabled   bool   `gorm:"not null;default:true"               json:"sound_enabled"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsApprover 判断用户是否具有审批权限（角色等级阈值由配置决定，默认 2）
func (u *User) IsApprover(approverRoleLevel int) bool {
	return u.RoleLevel >= approverRoleLevel
}

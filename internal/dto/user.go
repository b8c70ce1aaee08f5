package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID             int    `json:"id"`
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	DepartmentName string `json:"department_name"`
	Position       string `json:"position"`
	Email          string `json:"email,omitempty"`
	RoleLevel      int    `json:"role_level"`
	DefaultUnit    string `json:"default_unit,omitempty"`
	SoundEnabled   bool   `json:"sound_enabled"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// UserSettingsRequest 用户个人设置更新请求
type UserSettingsRequest struct {
	DefaultUnit  *string `json:"default_unit"  binding:"omitempty,max=100"`
	SoundEnabled *bool   `json:"sound_enabled"`
}

// AdminUserCreateRequest 管理端新建用户请求
type AdminUserCreateRequest struct {
	EmployeeID     string `json:"employee_id"     binding:"required,max=20"`
	Name           string `json:"name"            binding:"required,max=50"`
	DepartmentName string `json:"department_name" binding:"required,max=100"`
	Position       string `json:"position"        binding:"required,max=50"`
	Email          string `json:"email"           binding:"omitempty,email"`
	Password       string `json:"password"        binding:"required,min=8"`
	RoleLevel      int    `json:"role_level"      binding:"omitempty,min=1,max=9"` // 省略时为一般用户
}

// AdminUserUpdateRequest 管理端更新用户请求。
// Password 为空时不变更密码；Email/RoleLevel 为 nil 时保持原值
type AdminUserUpdateRequest struct {
	EmployeeID     string  `json:"employee_id"     binding:"required,max=20"`
	Name           string  `json:"name"            binding:"required,max=50"`
	DepartmentName string  `json:"department_name" binding:"required,max=100"`
	Position       string  `json:"position"        binding:"required,max=50"`
	Email          *string `json:"email"           binding:"omitempty"`
	Password       string  `json:"password"        binding:"omitempty,min=8"`
	RoleLevel      *int    `json:"role_level"      binding:"omitempty,min=1,max=9"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Department string `form:"department"`
	Keyword    string `form:"keyword"` // 社员ID或姓名模糊匹配
	Page       int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PerPage    int    `form:"per_page,default=50" binding:"omitempty,min=1,max=500"`
}

package dto

// ── 单元・工事区分主数据 DTO ──

// UnitCreateRequest 单元新增请求
type UnitCreateRequest struct {
	Name      string   `json:"name"       binding:"required,max=100"`
	WorkTypes []string `json:"work_types"` // 同时绑定的工事区分名
}

// UnitUpdateRequest 单元更新请求（改名与重绑工事区分）
type UnitUpdateRequest struct {
	Name      *string  `json:"name"       binding:"omitempty,max=100"`
	WorkTypes []string `json:"work_types"` // nil 表示不变更绑定
}

// UnitWorkTypesRequest 单元工事区分整体替换请求。
// 与 UnitUpdateRequest 不同，work_types 必须显式给出（空数组表示清空绑定）。
type UnitWorkTypesRequest struct {
	WorkTypes []string `json:"work_types"`
}

// UnitResponse 单元响应
type UnitResponse struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	WorkTypes []string `json:"work_types"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// WorkTypeCreateRequest 工事区分新增请求
type WorkTypeCreateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// WorkTypeUpdateRequest 工事区分更新请求
type WorkTypeUpdateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// WorkTypeResponse 工事区分响应
type WorkTypeResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

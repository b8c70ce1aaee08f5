package dto

// ── 工数记录模块 DTO ──

// DailyRowRequest 当日工数录入的单行数据
type DailyRowRequest struct {
	Model        string   `json:"model"`
	SerialNumber string   `json:"serial_number"`
	WorkOrder    string   `json:"work_order"`
	PartNumber   string   `json:"part_number"`
	OrderNumber  string   `json:"order_number"`
	Quantity     string   `json:"quantity"`
	UnitName     string   `json:"unit_name" binding:"required"`
	WorkType     string   `json:"work_type" binding:"required"`
	Minutes      int      `json:"minutes"   binding:"omitempty,min=0"` // 草稿允许 0
	Remarks      string   `json:"remarks"`
	LockedFields []string `json:"locked_fields"` // 外部采集、不可改写的字段名
}

// DailySaveRequest 当日工数批量保存请求（整日替换草稿）
type DailySaveRequest struct {
	WorkDate string            `json:"work_date" binding:"required"` // YYYY-MM-DD
	WorkRows []DailyRowRequest `json:"work_rows" binding:"required,dive"`
}

// SubmitAddRequest 追加申请请求
type SubmitAddRequest struct {
	Date         string   `json:"date"        binding:"required"` // YYYY-MM-DD
	Model        string   `json:"model"`
	SerialNumber string   `json:"serial_number"`
	WorkOrder    string   `json:"work_order"`
	PartNumber   string   `json:"part_number"`
	OrderNumber  string   `json:"order_number"`
	Quantity     string   `json:"quantity"`
	UnitName     string   `json:"unit_name"   binding:"required"`
	WorkType     string   `json:"work_type"   binding:"required"`
	Minutes      int      `json:"minutes"     binding:"required,min=1"`
	Remarks      string   `json:"remarks"`
	EditReason   string   `json:"edit_reason" binding:"required"`
	LockedFields []string `json:"locked_fields"`
}

// SubmitEditRequest 编辑申请请求。
// 指针字段缺省表示沿用记录当前值，引擎据此计算字段级差分。
type SubmitEditRequest struct {
	Date         *string `json:"date"`
	Model        *string `json:"model"`
	SerialNumber *string `json:"serial_number"`
	WorkOrder    *string `json:"work_order"`
	PartNumber   *string `json:"part_number"`
	OrderNumber  *string `json:"order_number"`
	Quantity     *string `json:"quantity"`
	UnitName     *string `json:"unit_name"`
	WorkType     *string `json:"work_type"`
	Minutes      *int    `json:"minutes"     binding:"omitempty,min=1"`
	Remarks      *string `json:"remarks"`
	EditReason   string  `json:"edit_reason" binding:"required"`
}

// SubmitDeleteRequest 删除申请请求
type SubmitDeleteRequest struct {
	EditReason string `json:"edit_reason" binding:"required"`
}

// RejectRequest 却下请求
type RejectRequest struct {
	RejectReason string `json:"reject_reason" binding:"required"`
}

// HistoryListRequest 工数履历查询参数
type HistoryListRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Model     string `form:"model"`
	UnitName  string `form:"unit_name"`
	WorkType  string `form:"work_type"`
	Status    string `form:"status"` // 组合状态串，all 或空为不过滤
	Page      int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page,default=100" binding:"omitempty,min=1,max=500"`
	SortBy    string `form:"sort_by,default=date"   binding:"omitempty,oneof=date minutes status updated_at"`
	SortOrder string `form:"sort_order,default=desc" binding:"omitempty,oneof=asc desc"`
}

// AdminListRequest 管理端工数查询参数（审批者视角，跨用户）
type AdminListRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	UnitName   string `form:"unit_name"`
	Department string `form:"department"`
	EmployeeID string `form:"employee_id"`
	// Status 支持组合状态串，以及伪状态 pending（全部申请中）
	Status    string `form:"status"`
	Page      int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page,default=100" binding:"omitempty,min=1,max=500"`
	SortBy    string `form:"sort_by,default=date"   binding:"omitempty,oneof=date employee_id minutes status unit_name work_type updated_at"`
	SortOrder string `form:"sort_order,default=desc" binding:"omitempty,oneof=asc desc"`
}

// DuplicateCheckRequest 重复提交预检查询参数（仅提示，非硬约束）
type DuplicateCheckRequest struct {
	Date         string `form:"date" binding:"required"`
	Model        string `form:"model"`
	SerialNumber string `form:"serial_number"`
	WorkOrder    string `form:"work_order"`
	PartNumber   string `form:"part_number"`
	OrderNumber  string `form:"order_number"`
	Quantity     string `form:"quantity"`
	UnitName     string `form:"unit_name" binding:"required"`
	WorkType     string `form:"work_type" binding:"required"`
}

// ── 响应 ──

// ProposedChangeResponse 在途编辑提案（overlay）的对外视图
type ProposedChangeResponse struct {
	Date         string `json:"date"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	WorkOrder    string `json:"work_order"`
	PartNumber   string `json:"part_number"`
	OrderNumber  string `json:"order_number"`
	Quantity     string `json:"quantity"`
	UnitName     string `json:"unit_name"`
	WorkType     string `json:"work_type"`
	Minutes      int    `json:"minutes"`
	Remarks      string `json:"remarks"`
	Reason       string `json:"reason"`
}

// WorklogResponse 工数记录响应
type WorklogResponse struct {
	ID           int                     `json:"id"`
	EmployeeID   string                  `json:"employee_id"`
	EmployeeName string                  `json:"employee_name,omitempty"`
	Date         string                  `json:"date"`
	Model        string                  `json:"model"`
	SerialNumber string                  `json:"serial_number"`
	WorkOrder    string                  `json:"work_order"`
	PartNumber   string                  `json:"part_number"`
	OrderNumber  string                  `json:"order_number"`
	Quantity     string                  `json:"quantity"`
	UnitName     string                  `json:"unit_name"`
	WorkType     string                  `json:"work_type"`
	Minutes      int                     `json:"minutes"`
	Remarks      string                  `json:"remarks"`
	Status       string                  `json:"status"` // 组合状态串（DTO 边界派生）
	EditReason   string                  `json:"edit_reason,omitempty"`
	RejectReason string                  `json:"reject_reason,omitempty"`
	Proposed     *ProposedChangeResponse `json:"proposed,omitempty"`
	LockedFields []string                `json:"locked_fields,omitempty"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
}

// DailyWorklogResponse 当日工数响应
type DailyWorklogResponse struct {
	WorkDate  string            `json:"work_date"`
	WorkRows  []WorklogResponse `json:"work_rows"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

// UnitOptionResponse 单元与允许工事区分的对应项
type UnitOptionResponse struct {
	Name      string   `json:"name"`
	WorkTypes []string `json:"work_types"`
}

// PendingCountResponse 审批者未处理申请数
type PendingCountResponse struct {
	Total         int64 `json:"total"`
	PendingAdd    int64 `json:"pending_add"`
	PendingEdit   int64 `json:"pending_edit"`
	PendingDelete int64 `json:"pending_delete"`
}

// RejectCountResponse 提交者被却下未处理数
type RejectCountResponse struct {
	Total          int64 `json:"total"`
	RejectedAdd    int64 `json:"rejected_add"`
	RejectedEdit   int64 `json:"rejected_edit"`
	RejectedDelete int64 `json:"rejected_delete"`
}

// FilterOptionsResponse 履历筛选项
type FilterOptionsResponse struct {
	Models    []string `json:"models"`
	WorkTypes []string `json:"work_types"`
}

// DuplicateCheckResponse 重复提交预检响应
type DuplicateCheckResponse struct {
	Duplicate bool `json:"duplicate"`
	MatchedID int  `json:"matched_id,omitempty"`
}

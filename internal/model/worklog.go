package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 状态建模 ──
//
// 工数记录的状态拆分为三部分存储：
//   base_status    记录本体的终态（draft | approved）
//   request_action 在途申请的动作（'' | add | edit | delete）
//   request_phase  在途申请的阶段（'' | pending | rejected）
// 对外展示的组合状态串（pending_add / rejected_edit 等）在 DTO 边界派生，
// 避免在存储层散落组合字符串字面量。

const (
	BaseStatusDraft    = "draft"
	BaseStatusApproved = "approved"
)

const (
	ActionNone   = ""
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

const (
	PhaseNone     = ""
	PhasePending  = "pending"
	PhaseRejected = "rejected"
)

// NAValue 描述性字段的「无实物」哨兵值
const NAValue = "N/A"

// RecordFields 工数记录的可申请字段集合。
// 主行列与 pending_change overlay 共用同一结构，便于差分与套用。
type RecordFields struct {
	Date         string `json:"date"` // YYYY-MM-DD
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
}

// DescriptiveValues 返回描述性字段（受 N/A 全有全无约束的字段）的有序切片
func (f *RecordFields) DescriptiveValues() map[string]string {
	return map[string]string{
		"model":         f.Model,
		"serial_number": f.SerialNumber,
		"work_order":    f.WorkOrder,
		"part_number":   f.PartNumber,
		"order_number":  f.OrderNumber,
		"quantity":      f.Quantity,
	}
}

// PendingChange 在途编辑申请的 overlay：提案字段值 + 申请理由。
// 以 JSONB 存储在记录本行上，一行至多一个，结构上排除了
// 「同一记录并发两个编辑提案」与「影子行悬挂」两类缺陷。
type PendingChange struct {
	Proposed RecordFields `json:"proposed"`
	Reason   string       `json:"reason"`
}

// Scan 实现 sql.Scanner
func (p *PendingChange) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("PendingChange.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, p)
}

// Value 实现 driver.Valuer
func (p PendingChange) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// WorkLog 工数记录表 — 对应 worklogs
type WorkLog struct {
	ID            int            `gorm:"primaryKey"                                json:"id"`
	EmployeeID    string         `gorm:"type:varchar(10);not null"                 json:"employee_id"`
	WorkDate      time.Time      `gorm:"type:date;not null"                        json:"work_date"`
	Model         string         `gorm:"type:varchar(50);not null;default:''"      json:"model"`
	SerialNumber  string         `gorm:"type:varchar(50);not null;default:''"      json:"serial_number"`
	WorkOrder     string         `gorm:"type:varchar(50);not null;default:''"      json:"work_order"`
	PartNumber    string         `gorm:"type:varchar(50);not null;default:''"      json:"part_number"`
	OrderNumber   string         `gorm:"type:varchar(50);not null;default:''"      json:"order_number"`
	Quantity      string         `gorm:"type:varchar(20);not null;default:''"      json:"quantity"`
	UnitName      string         `gorm:"type:varchar(50);not null"                 json:"unit_name"`
	WorkType      string         `gorm:"type:varchar(50);not null"                 json:"work_type"`
	Minutes       int            `gorm:"not null;default:0"                        json:"minutes"`
	Remarks       string         `gorm:"type:text;not null;default:''"             json:"remarks"`
	BaseStatus    string         `gorm:"type:varchar(20);not null;default:'draft'" json:"base_status"`
	RequestAction string         `gorm:"type:varchar(10);not null;default:''"      json:"request_action"`
	RequestPhase  string         `gorm:"type:varchar(10);not null;default:''"      json:"request_phase"`
	EditReason    string         `gorm:"type:text;not null;default:''"             json:"edit_reason"`
	RejectReason  string         `gorm:"type:text;not null;default:''"             json:"reject_reason"`
	PendingChange *PendingChange `gorm:"type:jsonb"                                json:"pending_change,omitempty"`
	LockedFields  StringList     `gorm:"type:jsonb"                                json:"locked_fields,omitempty"`
	Version       int            `gorm:"not null;default:1"                        json:"version"`
	BaseModel
}

// TableName 指定表名
func (WorkLog) TableName() string { return "worklogs" }

// Status 派生组合状态串：无在途申请时返回本体状态，
// 否则返回 phase_action 组合（pending_add / rejected_edit 等）
func (w *WorkLog) Status() string {
	if w.RequestAction == ActionNone {
		return w.BaseStatus
	}
	return w.RequestPhase + "_" + w.RequestAction
}

// Fields 提取记录当前的可申请字段集合
func (w *WorkLog) Fields() RecordFields {
	return RecordFields{
		Date:         w.WorkDate.Format("2006-01-02"),
		Model:        w.Model,
		SerialNumber: w.SerialNumber,
		WorkOrder:    w.WorkOrder,
		PartNumber:   w.PartNumber,
		OrderNumber:  w.OrderNumber,
		Quantity:     w.Quantity,
		UnitName:     w.UnitName,
		WorkType:     w.WorkType,
		Minutes:      w.Minutes,
		Remarks:      w.Remarks,
	}
}

// ApplyFields 将字段集合套用到记录本行（承认编辑申请时调用）
func (w *WorkLog) ApplyFields(f RecordFields) error {
	d, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		return fmt.Errorf("无效的日期 %q: %w", f.Date, err)
	}
	w.WorkDate = d
	w.Model = f.Model
	w.SerialNumber = f.SerialNumber
	w.WorkOrder = f.WorkOrder
	w.PartNumber = f.PartNumber
	w.OrderNumber = f.OrderNumber
	w.Quantity = f.Quantity
	w.UnitName = f.UnitName
	w.WorkType = f.WorkType
	w.Minutes = f.Minutes
	w.Remarks = f.Remarks
	return nil
}

// StatusFilter 将组合状态串解析回 (base, action, phase) 过滤条件。
// 返回的 ok=false 表示无法识别的状态串。
func StatusFilter(status string) (base, action, phase string, ok bool) {
	switch status {
	case BaseStatusDraft, BaseStatusApproved:
		return status, ActionNone, PhaseNone, true
	case "pending_add":
		return "", ActionAdd, PhasePending, true
	case "pending_edit":
		return "", ActionEdit, PhasePending, true
	case "pending_delete":
		return "", ActionDelete, PhasePending, true
	case "rejected_add":
		return "", ActionAdd, PhaseRejected, true
	case "rejected_edit":
		return "", ActionEdit, PhaseRejected, true
	case "rejected_delete":
		return "", ActionDelete, PhaseRejected, true
	default:
		return "", "", "", false
	}
}

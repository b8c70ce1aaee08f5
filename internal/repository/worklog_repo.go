package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	pkgerrors "github.com/Fusion-Mind-co/worklog-system/pkg/errors"
)

// WorklogQuery 工数记录列表查询条件。
// 状态过滤使用拆分后的三元组；PendingOnly 表示管理端的
// 伪状态 pending（不分动作的全部申请中记录）。
type WorklogQuery struct {
	EmployeeID  string
	Department  string
	StartDate   string // YYYY-MM-DD，空为不限
	EndDate     string
	Model       string
	UnitName    string
	WorkType    string
	BaseStatus  string
	Action      string
	Phase       string
	HasFilter   bool // BaseStatus/Action/Phase 是否生效
	PendingOnly bool
	Page        int
	PerPage     int
	SortBy      string // date | employee_id | minutes | status | unit_name | work_type | updated_at
	SortOrder   string // asc | desc
}

// WorklogRepository 工数记录数据访问接口
type WorklogRepository interface {
	Create(ctx context.Context, log *model.WorkLog) error
	GetByID(ctx context.Context, id int) (*model.WorkLog, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]model.WorkLog, error)
	ReplaceDrafts(ctx context.Context, employeeID string, date time.Time, rows []model.WorkLog) error
	Update(ctx context.Context, log *model.WorkLog) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, q WorklogQuery) ([]model.WorkLog, int64, error)
	CountPendingByAction(ctx context.Context) (map[string]int64, error)
	CountRejectedByAction(ctx context.Context, employeeID string) (map[string]int64, error)
	DistinctModels(ctx context.Context, employeeID string) ([]string, error)
	DistinctWorkTypes(ctx context.Context, employeeID string) ([]string, error)
	FindDuplicate(ctx context.Context, employeeID string, f model.RecordFields) (*model.WorkLog, error)
	CountByUnitName(ctx context.Context, unitName string) (int64, error)
	CountByWorkType(ctx context.Context, workType string) (int64, error)
}

// worklogRepo WorklogRepository 的 GORM 实现
type worklogRepo struct {
	db *gorm.DB
}

// NewWorklogRepo 创建 WorklogRepository 实例
func NewWorklogRepo(db *gorm.DB) WorklogRepository {
	return &worklogRepo{db: db}
}

func (r *worklogRepo) Create(ctx context.Context, log *model.WorkLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *worklogRepo) GetByID(ctx context.Context, id int) (*model.WorkLog, error) {
	var log model.WorkLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *worklogRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]model.WorkLog, error) {
	var logs []model.WorkLog
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, date.Format("2006-01-02")).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

// ReplaceDrafts 整日替换草稿：删除该员工当日既有草稿后批量写入新行。
// 在途申请与已承认的行不受影响。
func (r *worklogRepo) ReplaceDrafts(ctx context.Context, employeeID string, date time.Time, rows []model.WorkLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("employee_id = ? AND work_date = ? AND base_status = ? AND request_action = ?",
				employeeID, date.Format("2006-01-02"), model.BaseStatusDraft, model.ActionNone).
			Delete(&model.WorkLog{}).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *worklogRepo) Update(ctx context.Context, log *model.WorkLog) error {
	oldVersion := log.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(log).
		Where("id = ? AND version = ?", log.ID, oldVersion).
		Updates(map[string]interface{}{
			"work_date":      log.WorkDate,
			"model":          log.Model,
			"serial_number":  log.SerialNumber,
			"work_order":     log.WorkOrder,
			"part_number":    log.PartNumber,
			"order_number":   log.OrderNumber,
			"quantity":       log.Quantity,
			"unit_name":      log.UnitName,
			"work_type":      log.WorkType,
			"minutes":        log.Minutes,
			"remarks":        log.Remarks,
			"base_status":    log.BaseStatus,
			"request_action": log.RequestAction,
			"request_phase":  log.RequestPhase,
			"edit_reason":    log.EditReason,
			"reject_reason":  log.RejectReason,
			"pending_change": log.PendingChange,
			"locked_fields":  log.LockedFields,
			"version":        oldVersion + 1,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version = oldVersion + 1
	log.UpdatedAt = now
	return nil
}

func (r *worklogRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.WorkLog{}).Error
}

// buildQuery 组装列表过滤条件（List 与统计共用）
func (r *worklogRepo) buildQuery(ctx context.Context, q WorklogQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.WorkLog{})
	if q.Department != "" {
		query = query.
			Joins("JOIN users ON users.employee_id = worklogs.employee_id").
			Where("users.department_name = ?", q.Department)
	}
	if q.EmployeeID != "" {
		query = query.Where("worklogs.employee_id = ?", q.EmployeeID)
	}
	if q.StartDate != "" {
		query = query.Where("work_date >= ?", q.StartDate)
	}
	if q.EndDate != "" {
		query = query.Where("work_date <= ?", q.EndDate)
	}
	if q.Model != "" {
		query = query.Where("model = ?", q.Model)
	}
	if q.UnitName != "" {
		query = query.Where("unit_name = ?", q.UnitName)
	}
	if q.WorkType != "" {
		query = query.Where("work_type = ?", q.WorkType)
	}
	if q.PendingOnly {
		query = query.Where("request_phase = ?", model.PhasePending)
	} else if q.HasFilter {
		if q.Action == model.ActionNone {
			query = query.Where("base_status = ? AND request_action = ?", q.BaseStatus, model.ActionNone)
		} else {
			query = query.Where("request_action = ? AND request_phase = ?", q.Action, q.Phase)
		}
	}
	return query
}

// sortColumns 列表排序键到实际列的映射
var sortColumns = map[string]string{
	"date":        "work_date",
	"employee_id": "worklogs.employee_id",
	"minutes":     "minutes",
	"unit_name":   "unit_name",
	"work_type":   "work_type",
	"updated_at":  "worklogs.updated_at",
}

func (r *worklogRepo) List(ctx context.Context, q WorklogQuery) ([]model.WorkLog, int64, error) {
	query := r.buildQuery(ctx, q)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if q.SortOrder == "asc" {
		dir = "ASC"
	}
	var order string
	if q.SortBy == "status" {
		// 组合状态为派生值，按三元组排序等价
		order = "request_phase " + dir + ", request_action " + dir + ", base_status " + dir
	} else if col, ok := sortColumns[q.SortBy]; ok {
		order = col + " " + dir
	} else {
		order = "work_date " + dir
	}

	var logs []model.WorkLog
	err := query.
		Order(order).
		Order("worklogs.id " + dir).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&logs).Error
	return logs, total, err
}

// actionCount 按动作分组计数的扫描结果
type actionCount struct {
	RequestAction string
	Count         int64
}

func (r *worklogRepo) CountPendingByAction(ctx context.Context) (map[string]int64, error) {
	var rows []actionCount
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Select("request_action, COUNT(*) AS count").
		Where("request_phase = ?", model.PhasePending).
		Group("request_action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RequestAction] = row.Count
	}
	return counts, nil
}

func (r *worklogRepo) CountRejectedByAction(ctx context.Context, employeeID string) (map[string]int64, error) {
	var rows []actionCount
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Select("request_action, COUNT(*) AS count").
		Where("employee_id = ? AND request_phase = ?", employeeID, model.PhaseRejected).
		Group("request_action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RequestAction] = row.Count
	}
	return counts, nil
}

func (r *worklogRepo) DistinctModels(ctx context.Context, employeeID string) ([]string, error) {
	var models []string
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Distinct("model").
		Where("employee_id = ? AND model <> ''", employeeID).
		Order("model ASC").
		Pluck("model", &models).Error
	return models, err
}

func (r *worklogRepo) DistinctWorkTypes(ctx context.Context, employeeID string) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Distinct("work_type").
		Where("employee_id = ?", employeeID).
		Order("work_type ASC").
		Pluck("work_type", &types).Error
	return types, err
}

// FindDuplicate 查找同员工下字段完全一致的既存记录（重复提交预检）。
// 未命中时返回 (nil, nil)。
func (r *worklogRepo) FindDuplicate(ctx context.Context, employeeID string, f model.RecordFields) (*model.WorkLog, error) {
	var log model.WorkLog
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, f.Date).
		Where("model = ? AND serial_number = ? AND work_order = ?", f.Model, f.SerialNumber, f.WorkOrder).
		Where("part_number = ? AND order_number = ? AND quantity = ?", f.PartNumber, f.OrderNumber, f.Quantity).
		Where("unit_name = ? AND work_type = ?", f.UnitName, f.WorkType).
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *worklogRepo) CountByUnitName(ctx context.Context, unitName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Where("unit_name = ?", unitName).
		Count(&count).Error
	return count, err
}

func (r *worklogRepo) CountByWorkType(ctx context.Context, workType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Where("work_type = ?", workType).
		Count(&count).Error
	return count, err
}

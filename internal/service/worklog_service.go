package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/config"
	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
	"github.com/Fusion-Mind-co/worklog-system/internal/sse"
)

// ── 工数模块业务错误 ──

var (
	ErrWorklogNotFound     = errors.New("工数记录不存在")
	ErrWorklogNotOwner     = errors.New("只能操作本人的工数记录")
	ErrInvalidTransition   = errors.New("当前状态不允许该操作")
	ErrNoChange            = errors.New("提案内容与当前记录完全相同")
	ErrFieldLocked         = errors.New("包含不可修改的锁定字段")
	ErrUnitNotFound        = errors.New("单元不存在")
	ErrWorkTypeNotAllowed  = errors.New("该单元不允许此工事区分")
	ErrInvalidDate         = errors.New("日期格式无效")
	ErrMinutesNotPositive  = errors.New("工数分钟数必须为正数")
	ErrDescriptiveMismatch = errors.New("描述性字段必须全部填写或全部为 N/A")
	ErrInvalidStatusFilter = errors.New("无法识别的状态筛选值")
	ErrReasonRequired      = errors.New("必须填写申请理由")
)

// Notifier 生命周期事件的投递端口（由 SSE Hub 实现，main 中注入）
type Notifier interface {
	SendToUser(userID int, event sse.Event)
	SendToUsers(userIDs []int, event sse.Event)
	Broadcast(event sse.Event)
}

// WorklogService 工数记录业务接口
type WorklogService interface {
	// 当日录入
	SaveDaily(ctx context.Context, employeeID string, req *dto.DailySaveRequest) (*dto.DailyWorklogResponse, error)
	GetDaily(ctx context.Context, employeeID, date string) (*dto.DailyWorklogResponse, error)

	// 查询
	History(ctx context.Context, employeeID string, req *dto.HistoryListRequest) ([]dto.WorklogResponse, int64, error)
	FilterOptions(ctx context.Context, employeeID string) (*dto.FilterOptionsResponse, error)
	UnitOptions(ctx context.Context) ([]dto.UnitOptionResponse, error)
	CheckDuplicate(ctx context.Context, employeeID string, req *dto.DuplicateCheckRequest) (*dto.DuplicateCheckResponse, error)

	// 申请（提交者）
	SubmitAdd(ctx context.Context, employeeID string, req *dto.SubmitAddRequest) (*dto.WorklogResponse, error)
	SubmitEdit(ctx context.Context, employeeID string, id int, req *dto.SubmitEditRequest) (*dto.WorklogResponse, error)
	SubmitDelete(ctx context.Context, employeeID string, id int, req *dto.SubmitDeleteRequest) (*dto.WorklogResponse, error)
	Cancel(ctx context.Context, employeeID string, id int) (*dto.WorklogResponse, error)

	// 审批（承认者）
	Approve(ctx context.Context, approverEmployeeID string, id int) (*dto.WorklogResponse, error)
	Reject(ctx context.Context, approverEmployeeID string, id int, req *dto.RejectRequest) (*dto.WorklogResponse, error)

	// 徽标计数
	PendingCount(ctx context.Context) (*dto.PendingCountResponse, error)
	RejectCount(ctx context.Context, employeeID string) (*dto.RejectCountResponse, error)

	// 管理端
	AdminList(ctx context.Context, req *dto.AdminListRequest) ([]dto.WorklogResponse, int64, error)
}

type worklogService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewWorklogService 创建 WorklogService 实例
func NewWorklogService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier Notifier,
	logger *zap.Logger,
) WorklogService {
	return &worklogService{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// ────────────────────── 字段验证 ──────────────────────

// validateFields 写入前的字段校验。
// draft=true 时豁免分钟数正数约束（草稿可暂存未完成行）。
// locked 中的字段豁免 N/A 全有全无约束（外部采集值不可改写）。
func (s *worklogService) validateFields(ctx context.Context, f *model.RecordFields, draft bool, locked model.StringList) error {
	if _, err := time.Parse("2006-01-02", f.Date); err != nil {
		return ErrInvalidDate
	}
	if !draft && f.Minutes <= 0 {
		return ErrMinutesNotPositive
	}

	// 单元存在 + 工事区分隶属校验
	unit, err := s.repo.Unit.GetByName(ctx, f.UnitName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		s.logger.Error("查询单元失败", zap.String("unit", f.UnitName), zap.Error(err))
		return err
	}
	allowed := false
	for _, wt := range unit.WorkTypes {
		if wt.Name == f.WorkType {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrWorkTypeNotAllowed
	}

	// 「无实物工数」哨兵区分：描述性字段强制 N/A。
	// 锁定字段不可被本分支改写：已为 N/A 者放行，否则拒绝整个提案
	if f.WorkType == s.cfg.Worklog.NonProductiveWorkType {
		descriptive := []struct {
			name  string
			value *string
		}{
			{"model", &f.Model},
			{"serial_number", &f.SerialNumber},
			{"work_order", &f.WorkOrder},
			{"part_number", &f.PartNumber},
			{"order_number", &f.OrderNumber},
			{"quantity", &f.Quantity},
		}
		for _, d := range descriptive {
			if locked.Contains(d.name) {
				if *d.value != model.NAValue {
					return ErrFieldLocked
				}
				continue
			}
			*d.value = model.NAValue
		}
		return nil
	}

	// N/A 全有全无：描述性字段中出现 N/A 时必须全部为 N/A（锁定字段豁免）
	naCount, checked := 0, 0
	for name, v := range f.DescriptiveValues() {
		if locked.Contains(name) {
			continue
		}
		checked++
		if v == model.NAValue {
			naCount++
		}
	}
	if naCount > 0 && naCount < checked {
		return ErrDescriptiveMismatch
	}
	return nil
}

// ────────────────────── 当日录入 ──────────────────────

func (s *worklogService) SaveDaily(ctx context.Context, employeeID string, req *dto.DailySaveRequest) (*dto.DailyWorklogResponse, error) {
	date, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	rows := make([]model.WorkLog, 0, len(req.WorkRows))
	for _, r := range req.WorkRows {
		f := model.RecordFields{
			Date:         req.WorkDate,
			Model:        r.Model,
			SerialNumber: r.SerialNumber,
			WorkOrder:    r.WorkOrder,
			PartNumber:   r.PartNumber,
			OrderNumber:  r.OrderNumber,
			Quantity:     r.Quantity,
			UnitName:     r.UnitName,
			WorkType:     r.WorkType,
			Minutes:      r.Minutes,
			Remarks:      r.Remarks,
		}
		locked := model.StringList(r.LockedFields)
		if err := s.validateFields(ctx, &f, true, locked); err != nil {
			return nil, err
		}
		log := model.WorkLog{
			EmployeeID:   employeeID,
			BaseStatus:   model.BaseStatusDraft,
			LockedFields: locked,
			Version:      1,
		}
		if err := log.ApplyFields(f); err != nil {
			return nil, ErrInvalidDate
		}
		rows = append(rows, log)
	}

	if err := s.repo.Worklog.ReplaceDrafts(ctx, employeeID, date, rows); err != nil {
		s.logger.Error("保存当日草稿失败",
			zap.String("employee_id", employeeID),
			zap.String("date", req.WorkDate),
			zap.Error(err))
		return nil, err
	}

	return s.GetDaily(ctx, employeeID, req.WorkDate)
}

func (s *worklogService) GetDaily(ctx context.Context, employeeID, date string) (*dto.DailyWorklogResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	logs, err := s.repo.Worklog.ListByEmployeeAndDate(ctx, employeeID, d)
	if err != nil {
		s.logger.Error("查询当日工数失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	resp := &dto.DailyWorklogResponse{
		WorkDate: date,
		WorkRows: make([]dto.WorklogResponse, 0, len(logs)),
	}
	var latest time.Time
	for i := range logs {
		resp.WorkRows = append(resp.WorkRows, toWorklogResponse(&logs[i], nil))
		if logs[i].UpdatedAt.After(latest) {
			latest = logs[i].UpdatedAt
		}
	}
	if !latest.IsZero() {
		resp.UpdatedAt = latest.Format(time.RFC3339)
	}
	return resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *worklogService) History(ctx context.Context, employeeID string, req *dto.HistoryListRequest) ([]dto.WorklogResponse, int64, error) {
	q := repository.WorklogQuery{
		EmployeeID: employeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Model:      req.Model,
		UnitName:   req.UnitName,
		WorkType:   req.WorkType,
		Page:       req.Page,
		PerPage:    req.PerPage,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" && req.Status != "all" {
		base, action, phase, ok := model.StatusFilter(req.Status)
		if !ok {
			return nil, 0, ErrInvalidStatusFilter
		}
		q.BaseStatus, q.Action, q.Phase, q.HasFilter = base, action, phase, true
	}

	logs, total, err := s.repo.Worklog.List(ctx, q)
	if err != nil {
		s.logger.Error("查询工数履历失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.WorklogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, toWorklogResponse(&logs[i], nil))
	}
	return items, total, nil
}

func (s *worklogService) FilterOptions(ctx context.Context, employeeID string) (*dto.FilterOptionsResponse, error) {
	models, err := s.repo.Worklog.DistinctModels(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询机种筛选项失败", zap.Error(err))
		return nil, err
	}
	types, err := s.repo.Worklog.DistinctWorkTypes(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询工事区分筛选项失败", zap.Error(err))
		return nil, err
	}
	return &dto.FilterOptionsResponse{Models: models, WorkTypes: types}, nil
}

func (s *worklogService) UnitOptions(ctx context.Context) ([]dto.UnitOptionResponse, error) {
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		s.logger.Error("查询单元选项失败", zap.Error(err))
		return nil, err
	}
	options := make([]dto.UnitOptionResponse, 0, len(units))
	for _, u := range units {
		names := make([]string, 0, len(u.WorkTypes))
		for _, wt := range u.WorkTypes {
			names = append(names, wt.Name)
		}
		options = append(options, dto.UnitOptionResponse{Name: u.Name, WorkTypes: names})
	}
	return options, nil
}

func (s *worklogService) CheckDuplicate(ctx context.Context, employeeID string, req *dto.DuplicateCheckRequest) (*dto.DuplicateCheckResponse, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, ErrInvalidDate
	}
	f := model.RecordFields{
		Date:         req.Date,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		WorkOrder:    req.WorkOrder,
		PartNumber:   req.PartNumber,
		OrderNumber:  req.OrderNumber,
		Quantity:     req.Quantity,
		UnitName:     req.UnitName,
		WorkType:     req.WorkType,
	}
	found, err := s.repo.Worklog.FindDuplicate(ctx, employeeID, f)
	if err != nil {
		s.logger.Error("重复检查失败", zap.Error(err))
		return nil, err
	}
	if found == nil {
		return &dto.DuplicateCheckResponse{Duplicate: false}, nil
	}
	return &dto.DuplicateCheckResponse{Duplicate: true, MatchedID: found.ID}, nil
}

// ────────────────────── 申请（提交者） ──────────────────────

func (s *worklogService) SubmitAdd(ctx context.Context, employeeID string, req *dto.SubmitAddRequest) (*dto.WorklogResponse, error) {
	if req.EditReason == "" {
		return nil, ErrReasonRequired
	}
	f := model.RecordFields{
		Date:         req.Date,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		WorkOrder:    req.WorkOrder,
		PartNumber:   req.PartNumber,
		OrderNumber:  req.OrderNumber,
		Quantity:     req.Quantity,
		UnitName:     req.UnitName,
		WorkType:     req.WorkType,
		Minutes:      req.Minutes,
		Remarks:      req.Remarks,
	}
	locked := model.StringList(req.LockedFields)
	if err := s.validateFields(ctx, &f, false, locked); err != nil {
		return nil, err
	}

	log := &model.WorkLog{
		EmployeeID:    employeeID,
		BaseStatus:    model.BaseStatusDraft,
		RequestAction: model.ActionAdd,
		RequestPhase:  model.PhasePending,
		EditReason:    req.EditReason,
		LockedFields:  locked,
		Version:       1,
	}
	if err := log.ApplyFields(f); err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.repo.Worklog.Create(ctx, log); err != nil {
		s.logger.Error("创建追加申请失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	s.notifyApprovers(ctx, log, "request_submitted")
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

func (s *worklogService) SubmitEdit(ctx context.Context, employeeID string, id int, req *dto.SubmitEditRequest) (*dto.WorklogResponse, error) {
	if req.EditReason == "" {
		return nil, ErrReasonRequired
	}
	log, err := s.getOwned(ctx, employeeID, id)
	if err != nil {
		return nil, err
	}

	// 编辑申请的受理条件：
	//   无在途申请且本体为 draft/approved，或
	//   被却下的 add/edit 申请（再提交）
	resubmitAdd := log.RequestPhase == model.PhaseRejected && log.RequestAction == model.ActionAdd
	resubmitEdit := log.RequestPhase == model.PhaseRejected && log.RequestAction == model.ActionEdit
	idle := log.RequestAction == model.ActionNone
	if !idle && !resubmitAdd && !resubmitEdit {
		return nil, ErrInvalidTransition
	}

	// 差分基准：再提交 edit 以本体字段为基准（上次提案作废），
	// 其余情况同样以本体字段为基准
	proposed := log.Fields()
	applyEditPatch(&proposed, req)

	// 锁定字段不可改写
	current := log.Fields()
	if name, touched := lockedFieldTouched(log.LockedFields, &current, &proposed); touched {
		s.logger.Warn("编辑申请触碰锁定字段",
			zap.Int("worklog_id", id),
			zap.String("field", name))
		return nil, ErrFieldLocked
	}
	if proposed == current && !resubmitAdd && !resubmitEdit {
		return nil, ErrNoChange
	}
	if err := s.validateFields(ctx, &proposed, false, log.LockedFields); err != nil {
		return nil, err
	}

	if resubmitAdd {
		// 被却下的追加申请：行本身即提案，就地改写后重新送审
		if err := log.ApplyFields(proposed); err != nil {
			return nil, ErrInvalidDate
		}
		log.RequestAction = model.ActionAdd
	} else {
		log.PendingChange = &model.PendingChange{Proposed: proposed, Reason: req.EditReason}
		log.RequestAction = model.ActionEdit
	}
	log.RequestPhase = model.PhasePending
	log.EditReason = req.EditReason
	log.RejectReason = ""

	if err := s.repo.Worklog.Update(ctx, log); err != nil {
		return nil, s.wrapUpdateErr(err, "提交编辑申请", id)
	}

	s.notifyApprovers(ctx, log, "request_submitted")
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

func (s *worklogService) SubmitDelete(ctx context.Context, employeeID string, id int, req *dto.SubmitDeleteRequest) (*dto.WorklogResponse, error) {
	if req.EditReason == "" {
		return nil, ErrReasonRequired
	}
	log, err := s.getOwned(ctx, employeeID, id)
	if err != nil {
		return nil, err
	}
	if log.RequestAction != model.ActionNone {
		return nil, ErrInvalidTransition
	}

	log.RequestAction = model.ActionDelete
	log.RequestPhase = model.PhasePending
	log.EditReason = req.EditReason
	log.RejectReason = ""

	if err := s.repo.Worklog.Update(ctx, log); err != nil {
		return nil, s.wrapUpdateErr(err, "提交删除申请", id)
	}

	s.notifyApprovers(ctx, log, "request_submitted")
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

// Cancel 提交者撤回在途申请。
// add → 物理删除（记录尚不存在于正式台账）；
// edit → 清除 overlay，本体原样保留；
// delete → 清除申请标记，本体复原。
func (s *worklogService) Cancel(ctx context.Context, employeeID string, id int) (*dto.WorklogResponse, error) {
	log, err := s.getOwned(ctx, employeeID, id)
	if err != nil {
		return nil, err
	}
	if log.RequestAction == model.ActionNone {
		return nil, ErrInvalidTransition
	}

	if log.RequestAction == model.ActionAdd {
		if err := s.repo.Worklog.Delete(ctx, id); err != nil {
			s.logger.Error("撤回追加申请失败", zap.Int("worklog_id", id), zap.Error(err))
			return nil, err
		}
		return nil, nil
	}

	log.RequestAction = model.ActionNone
	log.RequestPhase = model.PhaseNone
	log.PendingChange = nil
	log.EditReason = ""
	log.RejectReason = ""

	if err := s.repo.Worklog.Update(ctx, log); err != nil {
		return nil, s.wrapUpdateErr(err, "撤回申请", id)
	}
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

// ────────────────────── 审批（承认者） ──────────────────────

// Approve 承认在途申请。按申请动作分派：
//
//	add    → 清除申请标记，本体转为 approved
//	edit   → 套用 overlay 至本体，清除 overlay，本体转为 approved
//	delete → 物理删除
func (s *worklogService) Approve(ctx context.Context, approverEmployeeID string, id int) (*dto.WorklogResponse, error) {
	log, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.RequestPhase != model.PhasePending {
		return nil, ErrInvalidTransition
	}

	action := log.RequestAction
	switch action {
	case model.ActionAdd:
		// 本体即申请内容，原样承认
	case model.ActionEdit:
		if log.PendingChange == nil {
			s.logger.Error("编辑申请缺少 overlay", zap.Int("worklog_id", id))
			return nil, ErrInvalidTransition
		}
		if err := log.ApplyFields(log.PendingChange.Proposed); err != nil {
			s.logger.Error("套用编辑提案失败", zap.Int("worklog_id", id), zap.Error(err))
			return nil, err
		}
	case model.ActionDelete:
		if err := s.repo.Worklog.Delete(ctx, id); err != nil {
			s.logger.Error("承认删除申请失败", zap.Int("worklog_id", id), zap.Error(err))
			return nil, err
		}
		s.logger.Info("删除申请已承认",
			zap.Int("worklog_id", id),
			zap.String("approver", approverEmployeeID))
		s.notifyOwner(ctx, log.EmployeeID, id, action, "approved", "")
		return nil, nil
	default:
		return nil, ErrInvalidTransition
	}

	log.BaseStatus = model.BaseStatusApproved
	log.RequestAction = model.ActionNone
	log.RequestPhase = model.PhaseNone
	log.PendingChange = nil
	log.EditReason = ""
	log.RejectReason = ""

	if err := s.repo.Worklog.Update(ctx, log); err != nil {
		return nil, s.wrapUpdateErr(err, "承认申请", id)
	}
	s.logger.Info("申请已承认",
		zap.Int("worklog_id", id),
		zap.String("action", action),
		zap.String("approver", approverEmployeeID))

	s.notifyOwner(ctx, log.EmployeeID, id, action, "approved", "")
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

func (s *worklogService) Reject(ctx context.Context, approverEmployeeID string, id int, req *dto.RejectRequest) (*dto.WorklogResponse, error) {
	if req.RejectReason == "" {
		return nil, ErrReasonRequired
	}
	log, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.RequestPhase != model.PhasePending {
		return nil, ErrInvalidTransition
	}

	log.RequestPhase = model.PhaseRejected
	log.RejectReason = req.RejectReason

	if err := s.repo.Worklog.Update(ctx, log); err != nil {
		return nil, s.wrapUpdateErr(err, "却下申请", id)
	}
	s.logger.Info("申请已却下",
		zap.Int("worklog_id", id),
		zap.String("action", log.RequestAction),
		zap.String("approver", approverEmployeeID))

	s.notifyOwner(ctx, log.EmployeeID, id, log.RequestAction, "rejected", req.RejectReason)
	resp := toWorklogResponse(log, nil)
	return &resp, nil
}

// ────────────────────── 徽标计数 ──────────────────────

func (s *worklogService) PendingCount(ctx context.Context) (*dto.PendingCountResponse, error) {
	counts, err := s.repo.Worklog.CountPendingByAction(ctx)
	if err != nil {
		s.logger.Error("统计申请中件数失败", zap.Error(err))
		return nil, err
	}
	resp := &dto.PendingCountResponse{
		PendingAdd:    counts[model.ActionAdd],
		PendingEdit:   counts[model.ActionEdit],
		PendingDelete: counts[model.ActionDelete],
	}
	resp.Total = resp.PendingAdd + resp.PendingEdit + resp.PendingDelete
	return resp, nil
}

func (s *worklogService) RejectCount(ctx context.Context, employeeID string) (*dto.RejectCountResponse, error) {
	counts, err := s.repo.Worklog.CountRejectedByAction(ctx, employeeID)
	if err != nil {
		s.logger.Error("统计却下件数失败", zap.Error(err))
		return nil, err
	}
	resp := &dto.RejectCountResponse{
		RejectedAdd:    counts[model.ActionAdd],
		RejectedEdit:   counts[model.ActionEdit],
		RejectedDelete: counts[model.ActionDelete],
	}
	resp.Total = resp.RejectedAdd + resp.RejectedEdit + resp.RejectedDelete
	return resp, nil
}

// ────────────────────── 管理端 ──────────────────────

func (s *worklogService) AdminList(ctx context.Context, req *dto.AdminListRequest) ([]dto.WorklogResponse, int64, error) {
	q := repository.WorklogQuery{
		EmployeeID: req.EmployeeID,
		Department: req.Department,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		UnitName:   req.UnitName,
		Page:       req.Page,
		PerPage:    req.PerPage,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	switch req.Status {
	case "", "all":
	case "pending":
		// 伪状态：不分动作的全部申请中记录
		q.PendingOnly = true
	default:
		base, action, phase, ok := model.StatusFilter(req.Status)
		if !ok {
			return nil, 0, ErrInvalidStatusFilter
		}
		q.BaseStatus, q.Action, q.Phase, q.HasFilter = base, action, phase, true
	}

	logs, total, err := s.repo.Worklog.List(ctx, q)
	if err != nil {
		s.logger.Error("管理端查询工数失败", zap.Error(err))
		return nil, 0, err
	}

	// 社员号 → 氏名（跨用户列表需附带氏名展示）
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询用户一览失败", zap.Error(err))
		return nil, 0, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.EmployeeID] = u.Name
	}

	items := make([]dto.WorklogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, toWorklogResponse(&logs[i], names))
	}
	return items, total, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *worklogService) getByID(ctx context.Context, id int) (*model.WorkLog, error) {
	log, err := s.repo.Worklog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorklogNotFound
		}
		s.logger.Error("查询工数记录失败", zap.Int("worklog_id", id), zap.Error(err))
		return nil, err
	}
	return log, nil
}

func (s *worklogService) getOwned(ctx context.Context, employeeID string, id int) (*model.WorkLog, error) {
	log, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.EmployeeID != employeeID {
		return nil, ErrWorklogNotOwner
	}
	return log, nil
}

func (s *worklogService) wrapUpdateErr(err error, op string, id int) error {
	s.logger.Error(op+"失败", zap.Int("worklog_id", id), zap.Error(err))
	return err
}

// notifyApprovers 向全体承认者投递新申请事件（提交事务后调用，失败只记日志）
func (s *worklogService) notifyApprovers(ctx context.Context, log *model.WorkLog, eventType string) {
	if s.notifier == nil {
		return
	}
	approvers, err := s.repo.User.ListByMinRoleLevel(ctx, s.cfg.Worklog.ApproverRoleLevel)
	if err != nil {
		s.logger.Error("查询承认者一览失败", zap.Error(err))
		return
	}
	ids := make([]int, 0, len(approvers))
	for _, u := range approvers {
		ids = append(ids, u.ID)
	}
	s.notifier.SendToUsers(ids, sse.NewEvent(eventType, map[string]interface{}{
		"worklog_id":  log.ID,
		"employee_id": log.EmployeeID,
		"action":      log.RequestAction,
		"status":      log.Status(),
	}))
}

// notifyOwner 向提交者投递审批结果事件
func (s *worklogService) notifyOwner(ctx context.Context, employeeID string, worklogID int, action, result, reason string) {
	if s.notifier == nil {
		return
	}
	owner, err := s.repo.User.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询申请者失败", zap.String("employee_id", employeeID), zap.Error(err))
		return
	}
	payload := map[string]interface{}{
		"worklog_id": worklogID,
		"action":     action,
		"result":     result,
	}
	if reason != "" {
		payload["reject_reason"] = reason
	}
	s.notifier.SendToUser(owner.ID, sse.NewEvent("request_decided", payload))
}

// applyEditPatch 将编辑申请的非空指针字段套用到提案上
func applyEditPatch(f *model.RecordFields, req *dto.SubmitEditRequest) {
	if req.Date != nil {
		f.Date = *req.Date
	}
	if req.Model != nil {
		f.Model = *req.Model
	}
	if req.SerialNumber != nil {
		f.SerialNumber = *req.SerialNumber
	}
	if req.WorkOrder != nil {
		f.WorkOrder = *req.WorkOrder
	}
	if req.PartNumber != nil {
		f.PartNumber = *req.PartNumber
	}
	if req.OrderNumber != nil {
		f.OrderNumber = *req.OrderNumber
	}
	if req.Quantity != nil {
		f.Quantity = *req.Quantity
	}
	if req.UnitName != nil {
		f.UnitName = *req.UnitName
	}
	if req.WorkType != nil {
		f.WorkType = *req.WorkType
	}
	if req.Minutes != nil {
		f.Minutes = *req.Minutes
	}
	if req.Remarks != nil {
		f.Remarks = *req.Remarks
	}
}

// lockedFieldTouched 检查提案是否改写了锁定字段
func lockedFieldTouched(locked model.StringList, current, proposed *model.RecordFields) (string, bool) {
	if len(locked) == 0 {
		return "", false
	}
	pairs := map[string][2]string{
		"date":          {current.Date, proposed.Date},
		"model":         {current.Model, proposed.Model},
		"serial_number": {current.SerialNumber, proposed.SerialNumber},
		"work_order":    {current.WorkOrder, proposed.WorkOrder},
		"part_number":   {current.PartNumber, proposed.PartNumber},
		"order_number":  {current.OrderNumber, proposed.OrderNumber},
		"quantity":      {current.Quantity, proposed.Quantity},
		"unit_name":     {current.UnitName, proposed.UnitName},
		"work_type":     {current.WorkType, proposed.WorkType},
		"minutes":       {fmt.Sprint(current.Minutes), fmt.Sprint(proposed.Minutes)},
		"remarks":       {current.Remarks, proposed.Remarks},
	}
	for _, name := range locked {
		if pair, ok := pairs[name]; ok && pair[0] != pair[1] {
			return name, true
		}
	}
	return "", false
}

// toWorklogResponse 组装工数记录响应。names 为社员号→氏名映射，可为 nil。
func toWorklogResponse(log *model.WorkLog, names map[string]string) dto.WorklogResponse {
	resp := dto.WorklogResponse{
		ID:           log.ID,
		EmployeeID:   log.EmployeeID,
		Date:         log.WorkDate.Format("2006-01-02"),
		Model:        log.Model,
		SerialNumber: log.SerialNumber,
		WorkOrder:    log.WorkOrder,
		PartNumber:   log.PartNumber,
		OrderNumber:  log.OrderNumber,
		Quantity:     log.Quantity,
		UnitName:     log.UnitName,
		WorkType:     log.WorkType,
		Minutes:      log.Minutes,
		Remarks:      log.Remarks,
		Status:       log.Status(),
		EditReason:   log.EditReason,
		RejectReason: log.RejectReason,
		LockedFields: log.LockedFields,
		CreatedAt:    log.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    log.UpdatedAt.Format(time.RFC3339),
	}
	if names != nil {
		resp.EmployeeName = names[log.EmployeeID]
	}
	if log.PendingChange != nil {
		p := log.PendingChange.Proposed
		resp.Proposed = &dto.ProposedChangeResponse{
			Date:         p.Date,
			Model:        p.Model,
			SerialNumber: p.SerialNumber,
			WorkOrder:    p.WorkOrder,
			PartNumber:   p.PartNumber,
			OrderNumber:  p.OrderNumber,
			Quantity:     p.Quantity,
			UnitName:     p.UnitName,
			WorkType:     p.WorkType,
			Minutes:      p.Minutes,
			Remarks:      p.Remarks,
			Reason:       log.PendingChange.Reason,
		}
	}
	return resp
}

package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/service"
	pkgerrors "github.com/Fusion-Mind-co/worklog-system/pkg/errors"
	"github.com/Fusion-Mind-co/worklog-system/pkg/response"
)

// WorklogHandler 工数模块 HTTP 处理器
type WorklogHandler struct {
	worklogSvc service.WorklogService
}

// NewWorklogHandler 创建 WorklogHandler
func NewWorklogHandler(worklogSvc service.WorklogService) *WorklogHandler {
	return &WorklogHandler{worklogSvc: worklogSvc}
}

// ────────────────────── 当日录入 ──────────────────────

// GetDaily 获取当日工数
// GET /api/v1/worklogs/daily?date=YYYY-MM-DD
func (h *WorklogHandler) GetDaily(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 参数必须指定")
		return
	}

	daily, err := h.worklogSvc.GetDaily(c.Request.Context(), employeeID, date)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, daily)
}

// SaveDaily 批量保存当日草稿（整日替换）
// POST /api/v1/worklogs/daily
func (h *WorklogHandler) SaveDaily(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	var req dto.DailySaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	daily, err := h.worklogSvc.SaveDaily(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, daily)
}

// ────────────────────── 查询 ──────────────────────

// Options 获取单元与允许工事区分的选项
// GET /api/v1/worklogs/options
func (h *WorklogHandler) Options(c *gin.Context) {
	options, err := h.worklogSvc.UnitOptions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"units": options})
}

// History 获取工数履历
// GET /api/v1/worklogs/history
func (h *WorklogHandler) History(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	var req dto.HistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.worklogSvc.History(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OKPage(c, items, total, req.Page, req.PerPage)
}

// HistoryFilters 获取履历筛选项
// GET /api/v1/worklogs/history/filters
func (h *WorklogHandler) HistoryFilters(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	options, err := h.worklogSvc.FilterOptions(c.Request.Context(), employeeID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, options)
}

// DuplicateCheck 重复提交预检
// GET /api/v1/worklogs/duplicate-check
func (h *WorklogHandler) DuplicateCheck(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	var req dto.DuplicateCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.worklogSvc.CheckDuplicate(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, result)
}

// ────────────────────── 申请（提交者） ──────────────────────

// SubmitAdd 提交追加申请
// POST /api/v1/worklogs/requests
func (h *WorklogHandler) SubmitAdd(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	var req dto.SubmitAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	log, err := h.worklogSvc.SubmitAdd(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.Created(c, log)
}

// SubmitEdit 提交编辑申请
// POST /api/v1/worklogs/:id/request-edit
func (h *WorklogHandler) SubmitEdit(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubmitEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	log, err := h.worklogSvc.SubmitEdit(c.Request.Context(), employeeID, id, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, log)
}

// SubmitDelete 提交删除申请
// POST /api/v1/worklogs/:id/request-delete
func (h *WorklogHandler) SubmitDelete(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubmitDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	log, err := h.worklogSvc.SubmitDelete(c.Request.Context(), employeeID, id, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, log)
}

// Cancel 撤回在途申请
// POST /api/v1/worklogs/:id/cancel
func (h *WorklogHandler) Cancel(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	log, err := h.worklogSvc.Cancel(c.Request.Context(), employeeID, id)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, log)
}

// ────────────────────── 审批（承认者） ──────────────────────

// Approve 承认申请
// POST /api/v1/worklogs/:id/approve
func (h *WorklogHandler) Approve(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	log, err := h.worklogSvc.Approve(c.Request.Context(), employeeID, id)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, log)
}

// Reject 却下申请
// POST /api/v1/worklogs/:id/reject
func (h *WorklogHandler) Reject(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	log, err := h.worklogSvc.Reject(c.Request.Context(), employeeID, id, &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OK(c, log)
}

// ────────────────────── 徽标计数 ──────────────────────

// PendingCount 承认者未处理申请数
// GET /api/v1/worklogs/pending-count
func (h *WorklogHandler) PendingCount(c *gin.Context) {
	counts, err := h.worklogSvc.PendingCount(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, counts)
}

// RejectCount 提交者被却下未处理数
// GET /api/v1/worklogs/reject-count
func (h *WorklogHandler) RejectCount(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}
	counts, err := h.worklogSvc.RejectCount(c.Request.Context(), employeeID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, counts)
}

// ────────────────────── 管理端 ──────────────────────

// AdminList 管理端工数一览（跨用户）
// GET /api/v1/admin/worklogs
func (h *WorklogHandler) AdminList(c *gin.Context) {
	var req dto.AdminListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.worklogSvc.AdminList(c.Request.Context(), &req)
	if err != nil {
		h.handleWorklogError(c, err)
		return
	}
	response.OKPage(c, items, total, req.Page, req.PerPage)
}

// ────────────────────── 内部辅助 ──────────────────────

// parseIDParam 解析 :id 路径参数
func parseIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "记录ID无效")
		return 0, false
	}
	return id, true
}

// handleWorklogError 统一处理工数模块业务错误
func (h *WorklogHandler) handleWorklogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorklogNotFound):
		response.NotFound(c, 12001, "工数记录不存在")
	case errors.Is(err, service.ErrWorklogNotOwner):
		response.Forbidden(c, 12002, "只能操作本人的工数记录")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 12003, "当前状态不允许该操作")
	case errors.Is(err, service.ErrNoChange):
		response.BadRequest(c, 12004, "提案内容与当前记录完全相同")
	case errors.Is(err, service.ErrFieldLocked):
		response.Forbidden(c, 12005, "包含不可修改的锁定字段")
	case errors.Is(err, service.ErrUnitNotFound):
		response.BadRequest(c, 12006, "单元不存在")
	case errors.Is(err, service.ErrWorkTypeNotAllowed):
		response.BadRequest(c, 12007, "该单元不允许此工事区分")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12008, "日期格式无效")
	case errors.Is(err, service.ErrMinutesNotPositive):
		response.BadRequest(c, 12009, "工数分钟数必须为正数")
	case errors.Is(err, service.ErrDescriptiveMismatch):
		response.BadRequest(c, 12010, "描述性字段必须全部填写或全部为 N/A")
	case errors.Is(err, service.ErrInvalidStatusFilter):
		response.BadRequest(c, 12011, "无法识别的状态筛选值")
	case errors.Is(err, service.ErrReasonRequired):
		response.BadRequest(c, 12012, "必须填写申请理由")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12013, "记录已被其他操作更新，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/service"
	"github.com/Fusion-Mind-co/worklog-system/pkg/response"
)

// TaxonomyHandler 单元・工事区分主数据 HTTP 处理器
type TaxonomyHandler struct {
	taxSvc service.TaxonomyService
}

// NewTaxonomyHandler 创建 TaxonomyHandler
func NewTaxonomyHandler(taxSvc service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxSvc: taxSvc}
}

// ────────────────────── 单元 ──────────────────────

// ListUnits 获取单元一览
// GET /api/v1/admin/units
func (h *TaxonomyHandler) ListUnits(c *gin.Context) {
	units, err := h.taxSvc.ListUnits(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": units})
}

// CreateUnit 创建单元
// POST /api/v1/admin/units
func (h *TaxonomyHandler) CreateUnit(c *gin.Context) {
	var req dto.UnitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	unit, err := h.taxSvc.CreateUnit(c.Request.Context(), &req)
	if err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.Created(c, unit)
}

// UpdateUnit 更新单元（改名、重绑工事区分）
// PUT /api/v1/admin/units/:id
func (h *TaxonomyHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UnitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	unit, err := h.taxSvc.UpdateUnit(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.OK(c, unit)
}

// ReplaceUnitWorkTypes 整体替换单元允许的工事区分
// PUT /api/v1/admin/units/:id/work-types
func (h *TaxonomyHandler) ReplaceUnitWorkTypes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UnitWorkTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if req.WorkTypes == nil {
		response.BadRequest(c, 10001, "work_types 参数必须指定")
		return
	}

	unit, err := h.taxSvc.UpdateUnit(c.Request.Context(), id, &dto.UnitUpdateRequest{
		WorkTypes: req.WorkTypes,
	})
	if err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.OK(c, unit)
}

// DeleteUnit 删除单元
// DELETE /api/v1/admin/units/:id
func (h *TaxonomyHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taxSvc.DeleteUnit(c.Request.Context(), id); err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 工事区分 ──────────────────────

// ListWorkTypes 获取工事区分一览
// GET /api/v1/admin/work-types
func (h *TaxonomyHandler) ListWorkTypes(c *gin.Context) {
	types, err := h.taxSvc.ListWorkTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": types})
}

// CreateWorkType 创建工事区分
// POST /api/v1/admin/work-types
func (h *TaxonomyHandler) CreateWorkType(c *gin.Context) {
	var req dto.WorkTypeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	wt, err := h.taxSvc.CreateWorkType(c.Request.Context(), &req)
	if err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.Created(c, wt)
}

// UpdateWorkType 更新工事区分
// PUT /api/v1/admin/work-types/:id
func (h *TaxonomyHandler) UpdateWorkType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.WorkTypeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	wt, err := h.taxSvc.UpdateWorkType(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.OK(c, wt)
}

// DeleteWorkType 删除工事区分
// DELETE /api/v1/admin/work-types/:id
func (h *TaxonomyHandler) DeleteWorkType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taxSvc.DeleteWorkType(c.Request.Context(), id); err != nil {
		h.handleTaxonomyError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleTaxonomyError 统一处理主数据模块业务错误
func (h *TaxonomyHandler) handleTaxonomyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 13001, "单元不存在")
	case errors.Is(err, service.ErrUnitNameExists):
		response.BadRequest(c, 13002, "单元名称已存在")
	case errors.Is(err, service.ErrUnitInUse):
		response.Conflict(c, 13003, "单元已被工数记录引用，无法删除")
	case errors.Is(err, service.ErrWorkTypeNotFound):
		response.NotFound(c, 13004, "工事区分不存在")
	case errors.Is(err, service.ErrWorkTypeNameExists):
		response.BadRequest(c, 13005, "工事区分名称已存在")
	case errors.Is(err, service.ErrWorkTypeInUse):
		response.Conflict(c, 13006, "工事区分已被工数记录引用，无法删除")
	default:
		response.InternalError(c)
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
	"github.com/Fusion-Mind-co/worklog-system/internal/sse"
)

// ── 主数据模块业务错误 ──

var (
	ErrUnitNameExists     = errors.New("单元名称已存在")
	ErrUnitInUse          = errors.New("单元已被工数记录引用，无法删除")
	ErrWorkTypeNotFound   = errors.New("工事区分不存在")
	ErrWorkTypeNameExists = errors.New("工事区分名称已存在")
	ErrWorkTypeInUse      = errors.New("工事区分已被工数记录引用，无法删除")
)

// TaxonomyService 单元・工事区分主数据业务接口
type TaxonomyService interface {
	// 单元
	CreateUnit(ctx context.Context, req *dto.UnitCreateRequest) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
	UpdateUnit(ctx context.Context, id int, req *dto.UnitUpdateRequest) (*dto.UnitResponse, error)
	DeleteUnit(ctx context.Context, id int) error

	// 工事区分
	CreateWorkType(ctx context.Context, req *dto.WorkTypeCreateRequest) (*dto.WorkTypeResponse, error)
	ListWorkTypes(ctx context.Context) ([]dto.WorkTypeResponse, error)
	UpdateWorkType(ctx context.Context, id int, req *dto.WorkTypeUpdateRequest) (*dto.WorkTypeResponse, error)
	DeleteWorkType(ctx context.Context, id int) error
}

type taxonomyService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewTaxonomyService 创建 TaxonomyService 实例
func NewTaxonomyService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) TaxonomyService {
	return &taxonomyService{repo: repo, notifier: notifier, logger: logger}
}

// notifyMasterUpdated 主数据变更后向全部在线客户端广播，
// 前端据此刷新单元・工事区分的下拉候选
func (s *taxonomyService) notifyMasterUpdated(kind, action string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(sse.NewEvent("master_updated", map[string]interface{}{
		"kind":   kind,
		"action": action,
	}))
}

// ────────────────────── 单元 ──────────────────────

func (s *taxonomyService) CreateUnit(ctx context.Context, req *dto.UnitCreateRequest) (*dto.UnitResponse, error) {
	existing, err := s.repo.Unit.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询单元失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrUnitNameExists
	}

	unit := &model.UnitName{Name: req.Name}
	if err := s.repo.Unit.Create(ctx, unit); err != nil {
		s.logger.Error("创建单元失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	if len(req.WorkTypes) > 0 {
		ids, err := s.resolveWorkTypeIDs(ctx, req.WorkTypes)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Unit.ReplaceWorkTypes(ctx, unit.ID, ids); err != nil {
			s.logger.Error("绑定工事区分失败", zap.Int("unit_id", unit.ID), zap.Error(err))
			return nil, err
		}
	}

	created, err := s.repo.Unit.GetByID(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	s.notifyMasterUpdated("unit", "created")
	resp := toUnitResponse(created)
	return &resp, nil
}

func (s *taxonomyService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		s.logger.Error("查询单元一览失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		items = append(items, toUnitResponse(&units[i]))
	}
	return items, nil
}

func (s *taxonomyService) UpdateUnit(ctx context.Context, id int, req *dto.UnitUpdateRequest) (*dto.UnitResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("查询单元失败", zap.Int("unit_id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil && *req.Name != unit.Name {
		existing, err := s.repo.Unit.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUnitNameExists
		}
		unit.Name = *req.Name
		if err := s.repo.Unit.Update(ctx, unit); err != nil {
			s.logger.Error("更新单元失败", zap.Int("unit_id", id), zap.Error(err))
			return nil, err
		}
	}

	if req.WorkTypes != nil {
		ids, err := s.resolveWorkTypeIDs(ctx, req.WorkTypes)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Unit.ReplaceWorkTypes(ctx, id, ids); err != nil {
			s.logger.Error("重绑工事区分失败", zap.Int("unit_id", id), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyMasterUpdated("unit", "updated")
	resp := toUnitResponse(updated)
	return &resp, nil
}

func (s *taxonomyService) DeleteUnit(ctx context.Context, id int) error {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return err
	}

	// 既有工数记录引用的单元不可删除（历史可读性优先）
	count, err := s.repo.Worklog.CountByUnitName(ctx, unit.Name)
	if err != nil {
		s.logger.Error("统计单元引用失败", zap.String("unit", unit.Name), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrUnitInUse
	}

	if err := s.repo.Unit.Delete(ctx, id); err != nil {
		s.logger.Error("删除单元失败", zap.Int("unit_id", id), zap.Error(err))
		return err
	}
	s.notifyMasterUpdated("unit", "deleted")
	return nil
}

// ────────────────────── 工事区分 ──────────────────────

func (s *taxonomyService) CreateWorkType(ctx context.Context, req *dto.WorkTypeCreateRequest) (*dto.WorkTypeResponse, error) {
	existing, err := s.repo.WorkType.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询工事区分失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrWorkTypeNameExists
	}

	wt := &model.WorkType{Name: req.Name}
	if err := s.repo.WorkType.Create(ctx, wt); err != nil {
		s.logger.Error("创建工事区分失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.notifyMasterUpdated("work_type", "created")
	resp := toWorkTypeResponse(wt)
	return &resp, nil
}

func (s *taxonomyService) ListWorkTypes(ctx context.Context) ([]dto.WorkTypeResponse, error) {
	types, err := s.repo.WorkType.List(ctx)
	if err != nil {
		s.logger.Error("查询工事区分一览失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.WorkTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, toWorkTypeResponse(&types[i]))
	}
	return items, nil
}

func (s *taxonomyService) UpdateWorkType(ctx context.Context, id int, req *dto.WorkTypeUpdateRequest) (*dto.WorkTypeResponse, error) {
	wt, err := s.repo.WorkType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkTypeNotFound
		}
		return nil, err
	}

	if req.Name != wt.Name {
		existing, err := s.repo.WorkType.GetByName(ctx, req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrWorkTypeNameExists
		}
	}

	wt.Name = req.Name
	if err := s.repo.WorkType.Update(ctx, wt); err != nil {
		s.logger.Error("更新工事区分失败", zap.Int("work_type_id", id), zap.Error(err))
		return nil, err
	}
	s.notifyMasterUpdated("work_type", "updated")
	resp := toWorkTypeResponse(wt)
	return &resp, nil
}

func (s *taxonomyService) DeleteWorkType(ctx context.Context, id int) error {
	wt, err := s.repo.WorkType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkTypeNotFound
		}
		return err
	}

	count, err := s.repo.Worklog.CountByWorkType(ctx, wt.Name)
	if err != nil {
		s.logger.Error("统计工事区分引用失败", zap.String("work_type", wt.Name), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrWorkTypeInUse
	}

	if err := s.repo.WorkType.Delete(ctx, id); err != nil {
		s.logger.Error("删除工事区分失败", zap.Int("work_type_id", id), zap.Error(err))
		return err
	}
	s.notifyMasterUpdated("work_type", "deleted")
	return nil
}

// ────────────────────── 内部辅助 ──────────────────────

// resolveWorkTypeIDs 将工事区分名解析为 ID，任一不存在即报错
func (s *taxonomyService) resolveWorkTypeIDs(ctx context.Context, names []string) ([]int, error) {
	types, err := s.repo.WorkType.GetByNames(ctx, names)
	if err != nil {
		s.logger.Error("批量查询工事区分失败", zap.Error(err))
		return nil, err
	}
	byName := make(map[string]int, len(types))
	for _, wt := range types {
		byName[wt.Name] = wt.ID
	}
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, ErrWorkTypeNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toUnitResponse(unit *model.UnitName) dto.UnitResponse {
	names := make([]string, 0, len(unit.WorkTypes))
	for _, wt := range unit.WorkTypes {
		names = append(names, wt.Name)
	}
	return dto.UnitResponse{
		ID:        unit.ID,
		Name:      unit.Name,
		WorkTypes: names,
		CreatedAt: unit.CreatedAt.Format(time.RFC3339),
		UpdatedAt: unit.UpdatedAt.Format(time.RFC3339),
	}
}

func toWorkTypeResponse(wt *model.WorkType) dto.WorkTypeResponse {
	return dto.WorkTypeResponse{
		ID:        wt.ID,
		Name:      wt.Name,
		CreatedAt: wt.CreatedAt.Format(time.RFC3339),
		UpdatedAt: wt.UpdatedAt.Format(time.RFC3339),
	}
}

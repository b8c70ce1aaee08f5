package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/model"
)

// WorkTypeRepository 工事区分数据访问接口
type WorkTypeRepository interface {
	Create(ctx context.Context, wt *model.WorkType) error
	GetByID(ctx context.Context, id int) (*model.WorkType, error)
	GetByName(ctx context.Context, name string) (*model.WorkType, error)
	GetByNames(ctx context.Context, names []string) ([]model.WorkType, error)
	List(ctx context.Context) ([]model.WorkType, error)
	Update(ctx context.Context, wt *model.WorkType) error
	Delete(ctx context.Context, id int) error
	CountLinks(ctx context.Context, workTypeID int) (int64, error)
}

// workTypeRepo WorkTypeRepository 的 GORM 实现
type workTypeRepo struct {
	db *gorm.DB
}

// NewWorkTypeRepo 创建 WorkTypeRepository 实例
func NewWorkTypeRepo(db *gorm.DB) WorkTypeRepository {
	return &workTypeRepo{db: db}
}

func (r *workTypeRepo) Create(ctx context.Context, wt *model.WorkType) error {
	return r.db.WithContext(ctx).Create(wt).Error
}

func (r *workTypeRepo) GetByID(ctx context.Context, id int) (*model.WorkType, error) {
	var wt model.WorkType
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&wt).Error
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *workTypeRepo) GetByName(ctx context.Context, name string) (*model.WorkType, error) {
	var wt model.WorkType
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&wt).Error
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *workTypeRepo) GetByNames(ctx context.Context, names []string) ([]model.WorkType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var types []model.WorkType
	err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Find(&types).Error
	return types, err
}

func (r *workTypeRepo) List(ctx context.Context) ([]model.WorkType, error) {
	var types []model.WorkType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *workTypeRepo) Update(ctx context.Context, wt *model.WorkType) error {
	return r.db.WithContext(ctx).
		Model(wt).
		Where("id = ?", wt.ID).
		Updates(map[string]interface{}{
			"name":       wt.Name,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *workTypeRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("work_type_id = ?", id).Delete(&model.UnitWorkType{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.WorkType{}).Error
	})
}

// CountLinks 统计工事区分被多少单元绑定
func (r *workTypeRepo) CountLinks(ctx context.Context, workTypeID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UnitWorkType{}).
		Where("work_type_id = ?", workTypeID).
		Count(&count).Error
	return count, err
}

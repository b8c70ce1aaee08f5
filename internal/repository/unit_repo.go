package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/model"
)

// UnitRepository 生产单元数据访问接口
type UnitRepository interface {
	Create(ctx context.Context, unit *model.UnitName) error
	GetByID(ctx context.Context, id int) (*model.UnitName, error)
	GetByName(ctx context.Context, name string) (*model.UnitName, error)
	List(ctx context.Context) ([]model.UnitName, error)
	Update(ctx context.Context, unit *model.UnitName) error
	Delete(ctx context.Context, id int) error
	ReplaceWorkTypes(ctx context.Context, unitID int, workTypeIDs []int) error
}

// unitRepo UnitRepository 的 GORM 实现
type unitRepo struct {
	db *gorm.DB
}

// NewUnitRepo 创建 UnitRepository 实例
func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.UnitName) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, id int) (*model.UnitName, error) {
	var unit model.UnitName
	err := r.db.WithContext(ctx).
		Preload("WorkTypes").
		Where("id = ?", id).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) GetByName(ctx context.Context, name string) (*model.UnitName, error) {
	var unit model.UnitName
	err := r.db.WithContext(ctx).
		Preload("WorkTypes").
		Where("name = ?", name).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) List(ctx context.Context) ([]model.UnitName, error) {
	var units []model.UnitName
	err := r.db.WithContext(ctx).
		Preload("WorkTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_types.name ASC")
		}).
		Order("name ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepo) Update(ctx context.Context, unit *model.UnitName) error {
	return r.db.WithContext(ctx).
		Model(unit).
		Where("id = ?", unit.ID).
		Updates(map[string]interface{}{
			"name":       unit.Name,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *unitRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("unit_id = ?", id).Delete(&model.UnitWorkType{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.UnitName{}).Error
	})
}

// ReplaceWorkTypes 整体重绑单元允许的工事区分
func (r *unitRepo) ReplaceWorkTypes(ctx context.Context, unitID int, workTypeIDs []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("unit_id = ?", unitID).Delete(&model.UnitWorkType{}).Error
		if err != nil {
			return err
		}
		if len(workTypeIDs) == 0 {
			return nil
		}
		links := make([]model.UnitWorkType, 0, len(workTypeIDs))
		for _, wtID := range workTypeIDs {
			links = append(links, model.UnitWorkType{UnitID: unitID, WorkTypeID: wtID})
		}
		return tx.Create(&links).Error
	})
}

package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User     UserRepository
	Worklog  WorklogRepository
	Unit     UnitRepository
	WorkType WorkTypeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Worklog:  NewWorklogRepo(db),
		Unit:     NewUnitRepo(db),
		WorkType: NewWorkTypeRepo(db),
	}
}

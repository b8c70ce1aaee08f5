package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/model"
)

// UserQuery 用户列表查询条件
type UserQuery struct {
	Department string
	Keyword    string // 社员号或姓名的模糊匹配
	Page       int
	PerPage    int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.User, error)
	List(ctx context.Context, q UserQuery) ([]model.User, int64, error)
	ListAll(ctx context.Context) ([]model.User, error)
	ListByMinRoleLevel(ctx context.Context, minRoleLevel int) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, q UserQuery) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if q.Department != "" {
		query = query.Where("department_name = ?", q.Department)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		query = query.Where("employee_id ILIKE ? OR name ILIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.
		Order("employee_id ASC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("employee_id ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListByMinRoleLevel(ctx context.Context, minRoleLevel int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role_level >= ?", minRoleLevel).
		Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{}).Error
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
)

// ErrEmployeeIDExists 社员ID已被其他用户占用
var ErrEmployeeIDExists = errors.New("该社员ID已被使用")

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id int) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// UpdateSettings 更新用户个人设置（默认单元、通知音）
	UpdateSettings(ctx context.Context, id int, req *dto.UserSettingsRequest) (*dto.UserResponse, error)

	// 管理端账号维护
	AdminCreate(ctx context.Context, req *dto.AdminUserCreateRequest) (*dto.UserResponse, error)
	AdminUpdate(ctx context.Context, id int, req *dto.AdminUserUpdateRequest) (*dto.UserResponse, error)
	AdminDelete(ctx context.Context, id int) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id int) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserQuery{
		Department: req.Department,
		Keyword:    req.Keyword,
		Page:       req.Page,
		PerPage:    req.PerPage,
	})
	if err != nil {
		s.logger.Error("查询用户一览失败", zap.Error(err))
		return nil, 0, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return items, total, nil
}

func (s *userService) UpdateSettings(ctx context.Context, id int, req *dto.UserSettingsRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.DefaultUnit != nil {
		user.DefaultUnit = *req.DefaultUnit
	}
	if req.SoundEnabled != nil {
		user.SoundEnabled = *req.SoundEnabled
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户设置失败", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── 管理端账号维护 ──────────────────────

func (s *userService) AdminCreate(ctx context.Context, req *dto.AdminUserCreateRequest) (*dto.UserResponse, error) {
	existing, err := s.repo.User.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmployeeIDExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}
	roleLevel := req.RoleLevel
	if roleLevel == 0 {
		roleLevel = 1
	}
	user := &model.User{
		EmployeeID:     req.EmployeeID,
		Name:           req.Name,
		DepartmentName: req.DepartmentName,
		Position:       req.Position,
		Email:          req.Email,
		PasswordHash:   string(hash),
		RoleLevel:      roleLevel,
		SoundEnabled:   true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) AdminUpdate(ctx context.Context, id int, req *dto.AdminUserUpdateRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 社员ID变更时查重（排除本人）
	if req.EmployeeID != user.EmployeeID {
		existing, err := s.repo.User.GetByEmployeeID(ctx, req.EmployeeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmployeeIDExists
		}
	}

	user.EmployeeID = req.EmployeeID
	user.Name = req.Name
	user.DepartmentName = req.DepartmentName
	user.Position = req.Position
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.RoleLevel != nil {
		user.RoleLevel = *req.RoleLevel
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) AdminDelete(ctx context.Context, id int) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Int("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		EmployeeID:     user.EmployeeID,
		Name:           user.Name,
		DepartmentName: user.DepartmentName,
		Position:       user.Position,
		Email:          user.Email,
		RoleLevel:      user.RoleLevel,
		DefaultUnit:    user.DefaultUnit,
		SoundEnabled:   user.SoundEnabled,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

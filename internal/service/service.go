package service

import (
	"go.uber.org/zap"

	"github.com/Fusion-Mind-co/worklog-system/config"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
	"github.com/Fusion-Mind-co/worklog-system/pkg/jwt"
	"github.com/Fusion-Mind-co/worklog-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Worklog  WorklogService
	Taxonomy TaxonomyService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:     NewUserService(repo, logger),
		Worklog:  NewWorklogService(cfg, repo, notifier, logger),
		Taxonomy: NewTaxonomyService(repo, notifier, logger),
		Export:   NewExportService(repo, logger),
	}
}

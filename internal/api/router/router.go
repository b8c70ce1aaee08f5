package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Fusion-Mind-co/worklog-system/config"
	"github.com/Fusion-Mind-co/worklog-system/internal/api/handler"
	"github.com/Fusion-Mind-co/worklog-system/internal/api/middleware"
	"github.com/Fusion-Mind-co/worklog-system/pkg/jwt"
	"github.com/Fusion-Mind-co/worklog-system/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	approverLevel := cfg.Worklog.ApproverRoleLevel

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			authorized.PUT("/users/me/settings", h.User.UpdateSettings)

			// 工数模块
			worklogs := authorized.Group("/worklogs")
			{
				worklogs.GET("/daily", h.Worklog.GetDaily)
				worklogs.POST("/daily", h.Worklog.SaveDaily)
				worklogs.GET("/options", h.Worklog.Options)
				worklogs.GET("/history", h.Worklog.History)
				worklogs.GET("/history/filters", h.Worklog.HistoryFilters)
				worklogs.GET("/duplicate-check", h.Worklog.DuplicateCheck)
				worklogs.GET("/reject-count", h.Worklog.RejectCount)

				// 申请（提交者）
				worklogs.POST("/requests", h.Worklog.SubmitAdd)
				worklogs.POST("/:id/request-edit", h.Worklog.SubmitEdit)
				worklogs.POST("/:id/request-delete", h.Worklog.SubmitDelete)
				worklogs.POST("/:id/cancel", h.Worklog.Cancel)

				// 审批（承认者）
				worklogs.POST("/:id/approve", middleware.RoleLevelAuth(approverLevel), h.Worklog.Approve)
				worklogs.POST("/:id/reject", middleware.RoleLevelAuth(approverLevel), h.Worklog.Reject)
				worklogs.GET("/pending-count", middleware.RoleLevelAuth(approverLevel), h.Worklog.PendingCount)
			}

			// 管理端（承认者以上）
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleLevelAuth(approverLevel))
			{
				admin.GET("/worklogs", h.Worklog.AdminList)
				admin.GET("/worklogs/export", h.Export.ExportWorklogs)
				admin.GET("/users", h.User.List)
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:id", h.User.Update)
				admin.DELETE("/users/:id", h.User.Delete)

				admin.GET("/units", h.Taxonomy.ListUnits)
				admin.POST("/units", h.Taxonomy.CreateUnit)
				admin.PUT("/units/:id", h.Taxonomy.UpdateUnit)
				admin.PUT("/units/:id/work-types", h.Taxonomy.ReplaceUnitWorkTypes)
				admin.DELETE("/units/:id", h.Taxonomy.DeleteUnit)

				admin.GET("/work-types", h.Taxonomy.ListWorkTypes)
				admin.POST("/work-types", h.Taxonomy.CreateWorkType)
				admin.PUT("/work-types/:id", h.Taxonomy.UpdateWorkType)
				admin.DELETE("/work-types/:id", h.Taxonomy.DeleteWorkType)
			}

			// SSE 事件流
			authorized.GET("/events", h.SSE.Stream)
		}
	}

	return r
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Fusion-Mind-co/worklog-system/pkg/jwt"
	"github.com/Fusion-Mind-co/worklog-system/pkg/redis"
	"github.com/Fusion-Mind-co/worklog-system/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token。
// EventSource 等无法设置请求头的客户端可经 ?token= 传递。
// rdb 非 nil 时检查 token 黑名单（登出后的 token 拒绝访问）。
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(c, 10002, "认证头格式无效")
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			response.Unauthorized(c, 10002, "缺少认证信息")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(tokenString)
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		// 黑名单检查（Redis 未配置或出错时降级放行）
		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已失效")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("role_level", claims.RoleLevel)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleLevelAuth 角色等级权限中间件
// 检查当前用户角色等级是否达到阈值（承认者/管理端接口用）
func RoleLevelAuth(minLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role_level")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		level, ok := v.(int)
		if !ok || level < minLevel {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}

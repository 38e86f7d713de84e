package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dinehub/backend/config"
	"dinehub/backend/internal/api/handler"
	"dinehub/backend/internal/api/middleware"
	"dinehub/backend/internal/model"
	"dinehub/backend/pkg/jwt"
	"dinehub/backend/pkg/redis"
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
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 餐厅模块
			restaurants := authorized.Group("/restaurants")
			{
				restaurants.GET("", h.Restaurant.ListRestaurants)
				restaurants.GET("/:id", h.Restaurant.GetRestaurant)
				restaurants.POST("", middleware.RoleAuth(model.AccountRoleAdmin), h.Restaurant.CreateRestaurant)
				restaurants.PUT("/:id", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Restaurant.UpdateRestaurant)

				// 餐厅下的门店
				restaurants.GET("/:id/locations", h.Location.ListLocations)
				restaurants.GET("/:id/locations/primary", h.Location.GetPrimaryLocation)
				restaurants.GET("/:id/locations/stats", h.Location.GetLocationStats)
				restaurants.GET("/:id/locations/export", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Export.ExportLocations)
				restaurants.POST("/:id/locations", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Location.CreateLocation)
			}

			// 门店模块
			locations := authorized.Group("/locations")
			{
				locations.GET("/:id", h.Location.GetLocation)
				locations.GET("/:id/staff", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Assignment.ListLocationStaff)
				locations.PUT("/:id", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Location.UpdateLocation)
				locations.PUT("/:id/primary", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Location.SetPrimaryLocation)
				locations.DELETE("/:id", middleware.RoleAuth(model.AccountRoleAdmin), h.Location.DeleteLocation)
			}

			// 用户门店分配模块
			users := authorized.Group("/users")
			{
				users.GET("/:id/locations", h.Assignment.ListUserLocations)
				users.GET("/:id/locations/:location_id/access", h.Assignment.CheckLocationAccess)
				users.POST("/:id/locations/:location_id", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Assignment.AssignUser)
				users.PUT("/:id/locations/:location_id/primary", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Assignment.SetPrimaryLocation)
				users.DELETE("/:id/locations/:location_id", middleware.RoleAuth(model.AccountRoleAdmin, model.AccountRoleManager), h.Assignment.RemoveAssignment)
			}

			// 角色目录模块
			roles := authorized.Group("/roles")
			{
				roles.GET("", h.Role.ListRoles)
				roles.GET("/name/:name", h.Role.GetRoleByName)
				roles.GET("/:id", h.Role.GetRole)
				roles.POST("", middleware.RoleAuth(model.AccountRoleAdmin), h.Role.CreateRole)
				roles.PUT("/:id", middleware.RoleAuth(model.AccountRoleAdmin), h.Role.UpdateRole)
				roles.DELETE("/:id", middleware.RoleAuth(model.AccountRoleAdmin), h.Role.DeactivateRole)
			}
		}
	}

	return r
}

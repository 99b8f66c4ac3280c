package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/councilcms/internal/app/controllers"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	content *controllers.ContentControllers,
	migrationController *controllers.MigrationController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/session", authController.Session)
	}

	// --- Admin routes, every handler behind the Admin Gate ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.AdminGate())

	registerContent(api, admin, models.ContentTeam, content.Team, migrationController)
	registerContent(api, admin, models.ContentClubs, content.Clubs, migrationController)
	registerContent(api, admin, models.ContentEvents, content.Events, migrationController)
	registerContent(api, admin, models.ContentHackathons, content.Hackathons, migrationController)
	registerContent(api, admin, models.ContentAchievements, content.Achievements, migrationController)
	registerContent(api, admin, models.ContentMagazines, content.Magazines, migrationController)
	registerContent(api, admin, models.ContentSettings, content.Settings, migrationController)
}

func registerContent[R models.Record](public, admin *gin.RouterGroup, ct models.ContentType, c *controllers.ContentController[R], m *controllers.MigrationController) {
	segment := "/" + ct.String()

	pub := public.Group(segment)
	{
		pub.GET("", c.List)
		pub.GET("/:id", c.Get)
	}

	protected := admin.Group(segment)
	{
		protected.GET("", c.AdminList)
		protected.POST("", c.Create)
		protected.POST("/migrate", m.Migrate(ct))
		protected.GET("/:id", c.AdminGet)
		protected.PUT("/:id", c.Update)
		protected.DELETE("/:id", c.Delete)
	}
}

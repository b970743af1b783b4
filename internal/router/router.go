package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/auth"
	"github.com/CarlosSilva09/TaskFlow/internal/handlers"
	"github.com/CarlosSilva09/TaskFlow/internal/middleware"
	"github.com/CarlosSilva09/TaskFlow/internal/query"
	"github.com/CarlosSilva09/TaskFlow/internal/store"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
)

func NewRouter(db *gorm.DB, tokens *auth.TokenManager) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := store.NewUserStore(db)
	tasks := store.NewTaskStore(db)
	engine := query.NewEngine(db)

	authHandler := handlers.NewAuthHandler(users, tokens)
	taskHandler := handlers.NewTaskHandler(tasks, engine)

	requireAuth := middleware.AuthMiddleware(tokens, db)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
			authRoutes.PUT("/profile", requireAuth, authHandler.UpdateProfile)
			authRoutes.PUT("/password", requireAuth, authHandler.ChangePassword)
			authRoutes.GET("/preferences", requireAuth, authHandler.GetPreferences)
			authRoutes.PUT("/preferences", requireAuth, authHandler.UpdatePreferences)
			authRoutes.DELETE("/account", requireAuth, authHandler.DeleteAccount)
		}

		taskRoutes := api.Group("/tasks", requireAuth)
		{
			taskRoutes.POST("", taskHandler.Create)
			taskRoutes.GET("", taskHandler.List)
			taskRoutes.GET("/stats", taskHandler.Stats)
			taskRoutes.DELETE("/completed", taskHandler.DeleteCompleted)
			taskRoutes.PUT("/mark-all-completed", taskHandler.MarkAllCompleted)
			taskRoutes.GET("/:id", taskHandler.Get)
			taskRoutes.PUT("/:id", taskHandler.Update)
			taskRoutes.DELETE("/:id", taskHandler.Delete)
			taskRoutes.PATCH("/:id/toggle", taskHandler.Toggle)
		}
	}

	// Single-page client
	r.Static("/assets", "./web/assets")
	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			ctx.JSON(http.StatusNotFound, types.Response{
				Success: false,
				Message: "Not found",
				Errors:  []string{"Not found"},
			})
			return
		}
		ctx.File("./web/index.html")
	})

	return r
}

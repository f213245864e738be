package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/controllers"
	"github.com/MikelGMatos/NutriSense/middlewares"
	"github.com/MikelGMatos/NutriSense/services"
)

// SetupRouter wires services and controllers onto the Gin engine. Tests call
// it with an in-memory database and a nil token store.
func SetupRouter(db *gorm.DB, tokens *services.TokenStore, hub *services.RealtimeHub, logger *zap.Logger, dev bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(logger))

	authSvc := services.NewAuthService(db)
	userSvc := services.NewUserService(db)
	diarySvc := services.NewDiaryService(db)

	authCtl := controllers.NewAuthController(authSvc, userSvc, tokens, logger, dev)
	diaryCtl := controllers.NewDiaryController(diarySvc, userSvc, hub, logger, dev)
	realtimeCtl := controllers.NewRealtimeController(hub)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	authProtected := api.Group("/auth")
	authProtected.Use(middlewares.AuthMiddleware(tokens))
	{
		authProtected.POST("/logout", authCtl.Logout)
		authProtected.GET("/profile", authCtl.GetProfile)
		authProtected.PUT("/profile", authCtl.UpdateProfile)
	}

	diary := api.Group("/diary")
	diary.Use(middlewares.AuthMiddleware(tokens))
	{
		diary.POST("/entries", diaryCtl.AddEntry)
		diary.GET("/entries/:date", diaryCtl.GetEntries)
		diary.PUT("/entries/:id", diaryCtl.UpdateEntry)
		diary.DELETE("/entries/:id", diaryCtl.DeleteEntry)
		diary.GET("/progress/:date", diaryCtl.GetProgress)
		diary.GET("/summary", diaryCtl.GetSummary)
		diary.GET("/ws", realtimeCtl.DiaryWS)
	}

	return r
}

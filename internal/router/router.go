package router

import (
	"log"
	"time"

	"emberly/config"
	"emberly/internal/handler"
	"emberly/internal/middleware"
	"emberly/internal/realtime"
	"emberly/internal/repository"
	"emberly/internal/service"
	"emberly/internal/ws"
	"emberly/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, publisher realtime.Publisher, hub *ws.Hub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	reportRepo := repository.NewReportRepository(db)
	archiveRepo := repository.NewActionHistoryRepository(db)
	discoveryRepo := repository.NewDiscoveryRepository(db)

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, publisher)
	matchSvc := service.NewMatchService(interactionRepo, matchRepo, userRepo, archiveRepo, notifSvc, publisher)
	conversationSvc := service.NewConversationService(matchRepo, messageRepo, userRepo, notifSvc, publisher)
	safetySvc := service.NewSafetyService(blockRepo, reportRepo, interactionRepo, matchRepo, archiveRepo)

	// Handlers
	interactionHandler := handler.NewInteractionHandler(matchSvc)
	chatHandler := handler.NewChatHandler(conversationSvc)
	safetyHandler := handler.NewSafetyHandler(safetySvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, userRepo)
	discoveryHandler := handler.NewDiscoveryHandler(discoveryRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	// limiter after auth so the quota is per user, not per NAT
	api.Use(authMw, middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))
	{
		api.GET("/discover", discoveryHandler.Discover)

		api.POST("/interactions/:user_id/like", interactionHandler.Like)
		api.POST("/interactions/:user_id/superlike", interactionHandler.Superlike)
		api.POST("/interactions/:user_id/pass", interactionHandler.Pass)
		api.DELETE("/interactions/:id", interactionHandler.Unlike)

		api.POST("/matches/:id/unmatch", interactionHandler.Unmatch)
		api.GET("/conversations", chatHandler.ListConversations)
		api.GET("/matches/:id/messages", chatHandler.GetMessages)
		api.POST("/matches/:id/messages", chatHandler.SendMessage)
		api.DELETE("/matches/:id/messages", chatHandler.DeleteConversation)

		api.POST("/block/:user_id", safetyHandler.Block)
		api.DELETE("/block/:user_id", safetyHandler.Unblock)
		api.GET("/blocks", safetyHandler.ListBlocked)
		api.POST("/reports", safetyHandler.Report)

		me := api.Group("/me")
		{
			me.GET("/interactions", interactionHandler.ListMine)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.GET("/notification-preferences", notificationHandler.GetPreferences)
			me.PUT("/notification-preferences", notificationHandler.UpdatePreferences)
			me.POST("/device-token", notificationHandler.RegisterDeviceToken)
			me.POST("/upload/chat", uploadHandler.UploadChatMedia)
		}
	}

	r.GET("/ws", ws.UpgradeUserWS(&cfg.JWT, hub))
	r.GET("/ws/chat", ws.UpgradeMatchWS(&cfg.JWT, hub, matchRepo, conversationSvc))

	return r
}

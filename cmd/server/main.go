package main

import (
	"log"

	"rcs-gateway/internal/api"
	"rcs-gateway/internal/config"
	"rcs-gateway/internal/database"
	"rcs-gateway/internal/storage"
	"rcs-gateway/internal/vonage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	storagePath := storage.ResolveStoragePath(cfg.StorageCandidates())
	files, err := storage.NewFileStore(config.UploadsDir(storagePath))
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	templates := storage.NewTemplateStore(config.TemplatesFile(storagePath))

	database.InitGorm(cfg)

	r := gin.Default()
	r.MaxMultipartMemory = 100 << 20

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	client := vonage.NewClient(cfg.MessagesAPIURL)

	messageHandler := api.NewMessageHandler(client, cfg)
	uploadHandler := api.NewUploadHandler(files)
	templateHandler := api.NewTemplateHandler(templates)
	payloadHandler := api.NewPayloadHandler()
	recipientHandler := api.NewRecipientHandler()
	historyHandler := api.NewHistoryHandler()
	healthHandler := api.NewHealthHandler(cfg, storagePath)

	r.Static("/uploads", files.UploadsDir)

	r.GET("/_/health", healthHandler.Ping)
	r.GET("/health", healthHandler.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/send-message", messageHandler.SendMessage)
		apiGroup.POST("/send-batch-messages", messageHandler.SendBatch)

		apiGroup.POST("/payload", payloadHandler.Build)
		apiGroup.POST("/recipients/parse", recipientHandler.Parse)

		apiGroup.POST("/upload", uploadHandler.Upload)
		apiGroup.DELETE("/upload/:filename", uploadHandler.Delete)

		apiGroup.GET("/templates", templateHandler.GetTemplates)
		apiGroup.POST("/templates", templateHandler.SaveTemplates)
		apiGroup.POST("/templates/add", templateHandler.AddTemplate)
		apiGroup.DELETE("/templates/:index", templateHandler.DeleteTemplate)

		apiGroup.GET("/messages", historyHandler.GetMessages)
	}

	log.Printf("Server starting on %s:%s (storage: %s)", cfg.Host, cfg.Port, storagePath)
	if err := r.Run(cfg.Host + ":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

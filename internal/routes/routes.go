package routes

import (
	"checklist/internal/archive"
	"checklist/internal/blobstore"
	"checklist/internal/config"
	"checklist/internal/controllers"
	"checklist/internal/intake"
	"checklist/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter initializes all services, controllers, and API routes
func SetupRouter(db *gorm.DB, blobs *blobstore.Store, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	store := archive.NewStore(db)

	responsesController := controllers.ResponsesController{
		Intake:         intake.NewService(store, blobs, logger),
		Archive:        store,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	filesController := controllers.FilesController{Blobs: blobs, Logger: logger}
	questionsController := controllers.QuestionsController{Logger: logger}

	router := gin.New()
	router.Use(logging.Middleware(logger), gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	router.GET("/questions/:process", questionsController.GetQuestions)

	responses := router.Group("/responses")
	{
		responses.POST("", responsesController.CreateResponses)
		responses.GET("", responsesController.ListResponses)
	}

	router.GET("/download/:fileName", filesController.Download)

	return router
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"checklist/internal/blobstore"
	"checklist/internal/config"
	"checklist/internal/db"
	"checklist/internal/logging"
	"checklist/internal/tasks"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Worker connected to database.")

	blobs, err := blobstore.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal("Failed to open upload directory", zap.Error(err))
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	sweepTask, err := tasks.NewSweepBlobsTask(cfg.SweepGraceMinutes)
	if err != nil {
		logger.Fatal("Failed to create sweep task", zap.Error(err))
	}

	// every 30 minutes
	entryID, err := scheduler.Register("*/30 * * * *", sweepTask, asynq.Queue("default"))
	if err != nil {
		logger.Fatal("Failed to register periodic task", zap.Error(err))
	}
	logger.Info("Registered periodic task", zap.String("type", sweepTask.Type()), zap.String("entry_id", entryID))

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 1,
			},
			// one sweep at a time is enough
			Concurrency: 1,
		},
	)

	taskProcessor := tasks.NewTaskProcessor(conn, blobs, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(
		tasks.TypeTaskSweepBlobs,
		taskProcessor.HandleSweepBlobsTask,
	)

	go func() {
		logger.Info("Starting Asynq scheduler...")
		if err := scheduler.Run(); err != nil {
			logger.Fatal("Could not run Asynq scheduler", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Starting Asynq worker server...")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("Could not run Asynq worker server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("Shutdown signal received, shutting down gracefully...")

	scheduler.Shutdown()
	logger.Info("Asynq scheduler shut down.")

	srv.Shutdown()
	logger.Info("Worker process shut down complete.")
}

package queue

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/assetledger/assetledger/internal/config"
	"github.com/assetledger/assetledger/internal/email"
	"github.com/assetledger/assetledger/internal/queue/handlers"
)

// Worker represents the notification worker with all its dependencies.
type Worker struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
	rdb         *redis.Client
}

// NewWorker creates a fully configured worker.
func NewWorker(logger *slog.Logger) (*Worker, error) {
	logger.Info("Initializing worker dependencies...")

	mp := email.NewEmailProvider(
		os.Getenv(config.ENV_KEY_SMTP_HOST),
		os.Getenv(config.ENV_KEY_SMTP_USERNAME),
		os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
		os.Getenv(config.ENV_KEY_SMTP_PORT),
	)

	redisAddr := fmt.Sprintf("%s:%s",
		os.Getenv(config.ENV_KEY_REDIS_HOST),
		os.Getenv(config.ENV_KEY_REDIS_PORT),
	)
	redisPassword := os.Getenv(config.ENV_KEY_REDIS_PASSWORD)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	h := handlers.New(mp, rdb, os.Getenv(config.ENV_KEY_SENDER_EMAIL), logger)

	workerConcurrency := 10
	if wc := os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY); wc != "" {
		var n int
		if _, err := fmt.Sscanf(wc, "%d", &n); err == nil && n > 0 {
			workerConcurrency = n
		}
	}

	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		},
		asynq.Config{
			Concurrency: workerConcurrency,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAssetEvent, h.HandleAssetEvent)

	return &Worker{
		asynqServer: asynqServer,
		mux:         mux,
		rdb:         rdb,
	}, nil
}

func (w *Worker) Start() error {
	return w.asynqServer.Run(w.mux)
}

func (w *Worker) Stop() {
	w.asynqServer.Shutdown()
	_ = w.rdb.Close()
}

package handlers

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/assetledger/assetledger/internal/usecase"
)

// Handlers holds the dependencies shared by all task handlers.
type Handlers struct {
	mailer usecase.MailProvider
	rdb    *redis.Client
	sender string
	logger *slog.Logger
}

func New(mailer usecase.MailProvider, rdb *redis.Client, sender string, logger *slog.Logger) *Handlers {
	return &Handlers{
		mailer: mailer,
		rdb:    rdb,
		sender: sender,
		logger: logger,
	}
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"

	"github.com/assetledger/assetledger/internal/ca"
	"github.com/assetledger/assetledger/internal/config"
	"github.com/assetledger/assetledger/internal/filestorage"
	"github.com/assetledger/assetledger/internal/ledger"
	"github.com/assetledger/assetledger/internal/queue"
	"github.com/assetledger/assetledger/internal/usecase"
	"github.com/assetledger/assetledger/internal/wallet"
)

// Service is the asset-lifecycle surface the handlers talk to.
type Service interface {
	RegisterUser(ctx context.Context, email, firstName, lastName string) (string, error)
	CreateUser(ctx context.Context, email, firstName, lastName string) (usecase.Participant, error)

	QueryAllDigitalAssets(ctx context.Context, caller string) ([]usecase.DigitalAsset, error)
	QueryDigitalAssetsByUser(ctx context.Context, caller, email string) ([]usecase.DigitalAsset, error)
	ReadDigitalAsset(ctx context.Context, caller, assetID string) (usecase.DigitalAsset, error)
	CreateDigitalAsset(ctx context.Context, name, fileType string, data []byte, createdBy string) (usecase.DigitalAsset, error)
	UpdateDigitalAsset(ctx context.Context, assetID, fileType string, data []byte, modifiedBy string) (usecase.UpdateOutcome, error)
	ChangeOwnershipOfAsset(ctx context.Context, assetID, modifier, newOwner string) (usecase.DigitalAsset, error)
	DeleteDigitalAsset(ctx context.Context, assetID, deleter string) error
	GetHistoryForDigitalAsset(ctx context.Context, assetID string) ([]usecase.AssetHistoryEntry, error)
	DownloadDigitalAssetFile(ctx context.Context, assetID string) ([]byte, error)

	ViewAssetModificationRequests(ctx context.Context, caller string) ([]usecase.DigitalAsset, error)
	ProcessAssetModRequest(ctx context.Context, assetID, modID, caller string, approve, addApprovedUser bool) (usecase.DigitalAsset, error)
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
	broker    *usecase.Broker
}

// App bundles the HTTP server with the long-lived providers that need an
// orderly shutdown.
type App struct {
	httpServer *http.Server
	ledger     *ledger.Provider
	events     *queue.Client
}

func NewApp() (*App, error) {
	cfg, err := config.LoadFabric()
	if err != nil {
		return nil, err
	}

	w, err := wallet.New(cfg.WalletPath)
	if err != nil {
		return nil, err
	}
	lp, err := ledger.NewProvider(cfg, w)
	if err != nil {
		return nil, err
	}
	caClient := ca.New(cfg)

	fsp := filestorage.NewMinIOStorage(
		os.Getenv(config.ENV_KEY_MINIO_BUCKET),
		os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
		os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
		os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
	)

	qc := queue.NewClient(
		fmt.Sprintf("%s:%s",
			os.Getenv(config.ENV_KEY_REDIS_HOST),
			os.Getenv(config.ENV_KEY_REDIS_PORT)),
		os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	)
	broker := usecase.NewBroker()

	uc := usecase.New(lp, fsp, w, caClient, usecase.MultiPublisher(qc, broker), cfg)

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	sv := &Server{
		port:      port,
		server:    uc,
		validator: validator.New(),
		broker:    broker,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", sv.port),
		Handler:      sv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &App{
		httpServer: httpServer,
		ledger:     lp,
		events:     qc,
	}, nil
}

func (a *App) Addr() string {
	return a.httpServer.Addr
}

func (a *App) ListenAndServe() error {
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.events.Close(); err != nil {
		return err
	}
	return a.ledger.Close()
}

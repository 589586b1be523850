package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/assetledger/assetledger/internal/usecase"
)

// TypeAssetEvent is the task type carrying one serialized asset event.
const TypeAssetEvent = "notification:asset_event"

// Client wraps asynq.Client for enqueuing tasks. It is the durable
// EventPublisher: events survive a worker restart in redis.
type Client struct {
	client *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string, redisPassword string) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Publish enqueues an asset event for the notification worker.
func (c *Client) Publish(ctx context.Context, ev usecase.AssetEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal asset event: %w", err)
	}

	task := asynq.NewTask(TypeAssetEvent, payload, asynq.MaxRetry(5))

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	slog.Debug("enqueued asset event",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("event", string(ev.Type)))
	return nil
}

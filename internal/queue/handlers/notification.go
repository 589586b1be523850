package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/assetledger/assetledger/internal/usecase"
)

// Asynq retries a failed task, and a commit may enqueue the same event
// twice on partial failure, so sends are deduplicated on event id.
const notifiedKeyTTL = 24 * time.Hour

// HandleAssetEvent sends the notification email for one asset event.
func (h *Handlers) HandleAssetEvent(ctx context.Context, task *asynq.Task) error {
	var ev usecase.AssetEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		return fmt.Errorf("unmarshaling asset event: %w", err)
	}

	key := "notified:" + ev.ID
	first, err := h.rdb.SetNX(ctx, key, 1, notifiedKeyTTL).Result()
	if err != nil {
		return fmt.Errorf("checking notification dedup key: %w", err)
	}
	if !first {
		h.logger.Debug("skipping already-sent notification", slog.String("event_id", ev.ID))
		return nil
	}

	email, err := usecase.BuildAssetEventEmail(ev, h.sender)
	if err != nil {
		// Unbuildable events can never succeed; drop instead of retrying.
		h.logger.Error("building notification email",
			slog.String("event_id", ev.ID),
			slog.String("err", err.Error()))
		return nil
	}

	if err := h.mailer.SendEmail(ctx, email); err != nil {
		// Release the dedup key so the retry is allowed to send.
		h.rdb.Del(ctx, key)
		return fmt.Errorf("sending notification email: %w", err)
	}

	h.logger.Info("sent asset notification",
		slog.String("event_id", ev.ID),
		slog.String("event", string(ev.Type)),
		slog.String("asset_id", ev.AssetID),
		slog.Int("recipients", len(ev.Recipients)))
	return nil
}

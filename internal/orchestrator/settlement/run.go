package settlement

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/config"
	"app/internal/events"
	"app/internal/pgmq"

	"github.com/rs/zerolog"
)

// overagePayload mirrors the row the usage store enqueues alongside each
// overage ledger insert.
type overagePayload struct {
	EventID     string `json:"event_id"`
	AccountID   string `json:"account_id"`
	AmountCents int    `json:"amount_cents"`
	Count       int    `json:"count"`
}

// Run starts the overage settlement worker. It drains the settlement queue,
// hands each ledger row to the billing topic and marks the row settled.
func Run(ctx context.Context, logger zerolog.Logger, client *pgmq.Client, publisher events.Publisher) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config in settlement worker: %v", err)
	}
	queue := cfg.OverageQueueName
	logger.Info().Str("queue", queue).Str("topic", cfg.BillingTopic).Msg("Starting settlement worker")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down settlement worker")
			return nil
		default:
		}
		msgs, err := client.ReadWithPoll(ctx, queue, cfg.OveragePollTimeoutSec, cfg.OveragePollMaxMsg)
		if err != nil {
			logger.Error().Err(err).Msg("Error reading settlement queue")
			time.Sleep(time.Second)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		msg := msgs[0]
		logger.Info().Int64("msg_id", msg.ID).Msg("Received overage settlement job")

		var payload overagePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Error().Err(err).Msg("Failed to unmarshal overage payload; deleting message")
			client.Delete(ctx, queue, []int64{msg.ID})
			continue
		}

		// Publish to the billing topic with retry/backoff.
		event, _ := events.Marshal(events.BillingEvent{
			EventID:     payload.EventID,
			AccountID:   payload.AccountID,
			AmountCents: payload.AmountCents,
			Count:       payload.Count,
			OccurredAt:  time.Now().UTC(),
		})
		backoff := time.Duration(cfg.OverageBackoffInitialSec) * time.Second
		var pubErr error
		for attempt := 1; attempt <= cfg.OverageMaxRetries; attempt++ {
			pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, pubErr = publisher.Publish(pubCtx, cfg.BillingTopic, event)
			cancel()
			if pubErr == nil {
				break
			}
			logger.Error().Err(pubErr).Int("attempt", attempt).Msg("Billing publish failed, retrying")
			time.Sleep(backoff)
			backoff *= 2
			if backoff > time.Duration(cfg.OverageBackoffMaxSec)*time.Second {
				backoff = time.Duration(cfg.OverageBackoffMaxSec) * time.Second
			}
		}
		if pubErr != nil {
			// The ledger row stays pending; park the job on the DLQ for
			// manual reconciliation and acknowledge the original.
			dlq := cfg.OverageDeadLetterQueueName
			if msgBytes, err := json.Marshal(payload); err == nil {
				if err := client.Send(ctx, dlq, msgBytes); err != nil {
					logger.Error().Err(err).Str("dlq", dlq).Msg("Failed to send message to dead-letter queue")
				}
			}
			if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
				logger.Error().Err(err).Msg("Error deleting settlement message after failure")
			}
			logger.Warn().
				Int("attempts", cfg.OverageMaxRetries).
				Str("event_id", payload.EventID).
				Err(pubErr).
				Msg("Exhausted all billing publish retries; moving job to DLQ")
			continue
		}

		if err := client.Exec(ctx, "UPDATE overage_events SET status=$1 WHERE id=$2", "settled", payload.EventID); err != nil {
			// Leave the message on the queue so the update is retried; the
			// billing consumer deduplicates on event_id.
			logger.Error().Err(err).Str("event_id", payload.EventID).Msg("Failed to mark overage event settled; will retry")
			time.Sleep(time.Second)
			continue
		}

		if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
			logger.Error().Err(err).Msg("Error deleting settlement message")
		}
		logger.Info().Str("event_id", payload.EventID).Int("amount_cents", payload.AmountCents).Msg("Overage settled")
	}
}

package worker

import (
	"NetVault/config"
	"NetVault/internal/mq"
	"NetVault/internal/service"
	"NetVault/internal/storage"
	"NetVault/internal/task"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

// RunImportWorker consumes the import queue until ctx is cancelled. Outbound
// fetches are throttled by a shared rate limiter and a concurrency semaphore.
func RunImportWorker(ctx context.Context, store storage.Store) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}
	if err := client.Channel.Qos(config.AppConfig.RabbitMQPrefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(mq.QueueTasks, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Limit(config.AppConfig.ImportRate), config.AppConfig.ImportBurst)
	sem := make(chan struct{}, config.AppConfig.ImportWorkerConcurrency)

	log.Printf("import worker: consuming %s, concurrency %d", mq.QueueTasks, config.AppConfig.ImportWorkerConcurrency)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleImportDelivery(ctx, client, store, limiter, d)
			}(d)
		}
	}
}

func handleImportDelivery(ctx context.Context, client *mq.Client, store storage.Store, limiter *rate.Limiter, d amqp.Delivery) {
	var msg task.ImportMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("import worker: unparseable message dropped: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		// Shutting down; leave the message for the next worker.
		_ = d.Nack(false, true)
		return
	}

	err := task.ProcessImportTask(ctx, store, msg.TaskID)
	if err == nil {
		_ = d.Ack(false)
		return
	}
	if task.IsTaskGone(err) {
		// Row gone or claimed elsewhere, nothing left to do.
		_ = d.Ack(false)
		return
	}

	attempt := msg.Attempt + 1
	if shouldRetry(err) && attempt <= config.AppConfig.ImportRetryMax {
		delay := pickRetryDelay(attempt)
		task.MarkImportTaskRetrying(msg.TaskID, attempt, time.Now().Add(delay), err)
		body, merr := json.Marshal(task.ImportMessage{TaskID: msg.TaskID, Attempt: attempt})
		if merr == nil {
			if perr := client.PublishRetry(ctx, body, delay); perr == nil {
				log.Printf("import worker: task %d attempt %d failed, retry in %s: %v", msg.TaskID, attempt, delay, err)
				_ = d.Ack(false)
				return
			}
		}
		// Could not schedule the retry; fall through to terminal failure.
	}

	task.MarkImportTaskFailed(msg.TaskID, err)
	if body, merr := json.Marshal(msg); merr == nil {
		if perr := client.PublishDLQ(ctx, body); perr != nil {
			log.Printf("import worker: task %d DLQ publish failed: %v", msg.TaskID, perr)
		}
	}
	log.Printf("import worker: task %d failed permanently: %v", msg.TaskID, err)
	_ = d.Ack(false)
}

// shouldRetry distinguishes transient failures from ones a retry cannot fix.
func shouldRetry(err error) bool {
	var statusErr *service.HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusRequestTimeout || statusErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return statusErr.StatusCode >= 500
	}
	if errors.Is(err, service.ErrStorageFailure) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Validation failures and client errors are permanent.
	if errors.Is(err, service.ErrInvalidFormat) {
		return false
	}
	// Network-level errors without an HTTP status are treated as transient.
	return true
}

func pickRetryDelay(attempt int) time.Duration {
	delays := config.AppConfig.ImportRetryDelays
	if len(delays) == 0 {
		return time.Minute
	}
	if attempt-1 < len(delays) {
		return delays[attempt-1]
	}
	return delays[len(delays)-1]
}

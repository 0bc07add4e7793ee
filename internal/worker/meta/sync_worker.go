package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	retryDelay      = 500 * time.Millisecond // базовая пауза между повторами
)

// Synchronizer - обработчики событий хоста, которые вызывает воркер
type Synchronizer interface {
	OnItemSaved(ctx context.Context, itemID int64, isRevision bool) (domain.SyncOutcome, error)
	OnFieldChanged(ctx context.Context, itemID int64, field string) (domain.SyncOutcome, error)
}

// SyncWorker читает события сохранения элементов и изменения метаданных
// и запускает синхронизацию карт. События обрабатываются последовательно.
type SyncWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	sync       Synchronizer
	metaKey    string
	maxRetries int
}

// NewSyncWorker создает новый SyncWorker
func NewSyncWorker(
	streamRepo repository.StreamRepository,
	sync Synchronizer,
	metaKey string,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SyncWorker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &SyncWorker{
		BaseWorker: worker.NewBaseWorker("meta-sync", consumerGroup, logger),
		streamRepo: streamRepo,
		sync:       sync,
		metaKey:    metaKey,
		maxRetries: maxRetries,
	}
}

// Streams - стримы, из которых читает воркер
func (w *SyncWorker) Streams() []string {
	return []string{domain.StreamItemSaved, domain.StreamMetaChanged}
}

// Start запускает воркер
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SyncWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Strings("streams", w.Streams()))

	// Создаем consumer group для каждого стрима
	for _, stream := range w.Streams() {
		if err := w.streamRepo.CreateConsumerGroup(ctx, stream, w.ConsumerGroup()); err != nil {
			logger.Error("Failed to create consumer group", zap.String("stream", stream), zap.Error(err))
			return fmt.Errorf("failed to create consumer group: %w", err)
		}
	}

	// Основной цикл обработки
	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("Failed to process batch", zap.Error(err))
				w.sleep(ctx, time.Second) // пауза при ошибке
				continue
			}

			// Если ничего не обработали - короткая пауза
			if processed == 0 {
				w.sleep(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *SyncWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		w.Streams(),
		w.ConsumerGroup(),
		w.ConsumerName(),
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	w.Logger().Debug("Processing batch", zap.Int("message_count", len(messages)))

	for _, msg := range messages {
		w.handleMessage(ctx, msg)
	}

	return len(messages), nil
}

func (w *SyncWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(
		zap.String("stream", msg.Stream),
		zap.String("message_id", msg.ID))

	itemID, field, run, err := w.dispatch(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		w.ack(ctx, msg)
		return
	}

	outcome, err := w.withRetry(ctx, run)
	if err != nil {
		logger.Error("Synchronization failed",
			zap.Int64("item_id", itemID),
			zap.Int("attempts", w.maxRetries),
			zap.Error(err))
	} else if outcome.Status != domain.SyncNoOp {
		logger.Info("Synchronization completed",
			zap.Int64("item_id", itemID),
			zap.String("status", outcome.Status.String()),
			zap.Int("errors", len(outcome.Errors)))
	}

	// NoOp без ошибки не публикуется: хост ничего не ждет
	if err != nil || outcome.Status != domain.SyncNoOp {
		done := domain.NewSyncDoneEvent(itemID, field, outcome, err)
		if pubErr := w.streamRepo.PublishToStream(ctx, domain.StreamSyncDone, done); pubErr != nil {
			logger.Error("Failed to publish done event", zap.Int64("item_id", itemID), zap.Error(pubErr))
		}
	}

	w.ack(ctx, msg)
}

// dispatch разбирает сообщение и возвращает вызов нужного обработчика
func (w *SyncWorker) dispatch(msg domain.StreamMessage) (int64, string, func(context.Context) (domain.SyncOutcome, error), error) {
	switch msg.Stream {
	case domain.StreamItemSaved:
		var event domain.ItemSavedEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
			return 0, "", nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		if event.ItemID <= 0 {
			return 0, "", nil, fmt.Errorf("invalid item_id %d", event.ItemID)
		}
		return event.ItemID, w.metaKey, func(ctx context.Context) (domain.SyncOutcome, error) {
			return w.sync.OnItemSaved(ctx, event.ItemID, event.Revision)
		}, nil

	case domain.StreamMetaChanged:
		var event domain.MetaChangedEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
			return 0, "", nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		if event.ItemID <= 0 || event.Field == "" {
			return 0, "", nil, fmt.Errorf("invalid event: item_id=%d field=%q", event.ItemID, event.Field)
		}
		return event.ItemID, event.Field, func(ctx context.Context) (domain.SyncOutcome, error) {
			return w.sync.OnFieldChanged(ctx, event.ItemID, event.Field)
		}, nil

	default:
		return 0, "", nil, fmt.Errorf("unexpected stream %q", msg.Stream)
	}
}

func (w *SyncWorker) withRetry(ctx context.Context, run func(context.Context) (domain.SyncOutcome, error)) (domain.SyncOutcome, error) {
	var (
		outcome domain.SyncOutcome
		err     error
	)
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		outcome, err = run(ctx)
		if err == nil {
			return outcome, nil
		}
		if attempt < w.maxRetries {
			w.sleep(ctx, time.Duration(attempt)*retryDelay)
		}
		if ctx.Err() != nil {
			return outcome, err
		}
	}
	return outcome, err
}

func (w *SyncWorker) ack(ctx context.Context, msg domain.StreamMessage) {
	if err := w.streamRepo.AckMessage(ctx, msg.Stream, w.ConsumerGroup(), msg.ID); err != nil {
		// Не критично - сообщение будет переобработано
		w.Logger().Error("Failed to ack message", zap.String("message_id", msg.ID), zap.Error(err))
	}
}

func (w *SyncWorker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

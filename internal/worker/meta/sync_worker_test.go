package meta_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/worker/meta"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, streams []string, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, streams, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockSynchronizer is a mock of the sync hooks
type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) OnItemSaved(ctx context.Context, itemID int64, isRevision bool) (domain.SyncOutcome, error) {
	args := m.Called(ctx, itemID, isRevision)
	return args.Get(0).(domain.SyncOutcome), args.Error(1)
}

func (m *MockSynchronizer) OnFieldChanged(ctx context.Context, itemID int64, field string) (domain.SyncOutcome, error) {
	args := m.Called(ctx, itemID, field)
	return args.Get(0).(domain.SyncOutcome), args.Error(1)
}

const group = "test-group"

func newWorker(stream *MockStreamRepository, sync *MockSynchronizer, retries int) *meta.SyncWorker {
	return meta.NewSyncWorker(stream, sync, "location", group, retries, zap.NewNop())
}

func expectBatch(stream *MockStreamRepository, w *meta.SyncWorker, messages []domain.StreamMessage) {
	stream.On("ConsumeBatch", mock.Anything, w.Streams(), group, w.ConsumerName(), 20).
		Return(messages, nil).Once()
}

func TestSyncWorker_Name(t *testing.T) {
	w := newWorker(&MockStreamRepository{}, &MockSynchronizer{}, 3)
	assert.Equal(t, "meta-sync", w.Name())
	assert.Equal(t, group, w.ConsumerGroup())
	assert.NotEmpty(t, w.ConsumerName())
	assert.Equal(t, []string{domain.StreamItemSaved, domain.StreamMetaChanged}, w.Streams())
}

func TestSyncWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty queue", func(t *testing.T) {
		stream := &MockStreamRepository{}
		w := newWorker(stream, &MockSynchronizer{}, 3)
		expectBatch(stream, w, nil)

		processed, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, processed)
	})

	t.Run("events are dispatched in order", func(t *testing.T) {
		stream := &MockStreamRepository{}
		sync := &MockSynchronizer{}
		w := newWorker(stream, sync, 3)

		expectBatch(stream, w, []domain.StreamMessage{
			{ID: "1-0", Stream: domain.StreamItemSaved, Data: `{"item_id": 7}`},
			{ID: "2-0", Stream: domain.StreamMetaChanged, Data: `{"item_id": 7, "field": "location"}`},
		})

		var calls []string
		sync.On("OnItemSaved", mock.Anything, int64(7), false).
			Run(func(mock.Arguments) { calls = append(calls, "saved") }).
			Return(domain.NewSyncOutcome(nil), nil)
		sync.On("OnFieldChanged", mock.Anything, int64(7), "location").
			Run(func(mock.Arguments) { calls = append(calls, "changed") }).
			Return(domain.NewSyncOutcome([]string{"No results"}), nil)

		var published []*domain.SyncDoneEvent
		stream.On("PublishToStream", mock.Anything, domain.StreamSyncDone, mock.AnythingOfType("*domain.SyncDoneEvent")).
			Run(func(args mock.Arguments) { published = append(published, args.Get(2).(*domain.SyncDoneEvent)) }).
			Return(nil)
		stream.On("AckMessage", mock.Anything, domain.StreamItemSaved, group, "1-0").Return(nil)
		stream.On("AckMessage", mock.Anything, domain.StreamMetaChanged, group, "2-0").Return(nil)

		processed, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, processed)
		assert.Equal(t, []string{"saved", "changed"}, calls)

		require.Len(t, published, 2)
		assert.Equal(t, "success", published[0].Status)
		assert.Equal(t, "location", published[0].Field)
		assert.Equal(t, "success_with_errors", published[1].Status)
		assert.Equal(t, []string{"No results"}, published[1].Errors)
		stream.AssertExpectations(t)
	})

	t.Run("noop outcome is not published", func(t *testing.T) {
		stream := &MockStreamRepository{}
		sync := &MockSynchronizer{}
		w := newWorker(stream, sync, 3)

		expectBatch(stream, w, []domain.StreamMessage{
			{ID: "1-0", Stream: domain.StreamItemSaved, Data: `{"item_id": 7, "revision": true}`},
		})
		sync.On("OnItemSaved", mock.Anything, int64(7), true).Return(domain.NoOpOutcome(), nil)
		stream.On("AckMessage", mock.Anything, domain.StreamItemSaved, group, "1-0").Return(nil)

		_, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		stream.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
		stream.AssertExpectations(t)
	})

	t.Run("malformed message is acked and skipped", func(t *testing.T) {
		stream := &MockStreamRepository{}
		sync := &MockSynchronizer{}
		w := newWorker(stream, sync, 3)

		expectBatch(stream, w, []domain.StreamMessage{
			{ID: "1-0", Stream: domain.StreamMetaChanged, Data: `not json`},
			{ID: "2-0", Stream: domain.StreamMetaChanged, Data: `{"item_id": 7}`},
		})
		stream.On("AckMessage", mock.Anything, domain.StreamMetaChanged, group, "1-0").Return(nil)
		stream.On("AckMessage", mock.Anything, domain.StreamMetaChanged, group, "2-0").Return(nil)

		processed, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, processed)
		sync.AssertNotCalled(t, "OnFieldChanged", mock.Anything, mock.Anything, mock.Anything)
		stream.AssertExpectations(t)
	})

	t.Run("failure is retried then reported", func(t *testing.T) {
		stream := &MockStreamRepository{}
		sync := &MockSynchronizer{}
		w := newWorker(stream, sync, 2)

		expectBatch(stream, w, []domain.StreamMessage{
			{ID: "1-0", Stream: domain.StreamMetaChanged, Data: `{"item_id": 7, "field": "location"}`},
		})
		sync.On("OnFieldChanged", mock.Anything, int64(7), "location").
			Return(domain.SyncOutcome{}, errors.New("db down")).Twice()

		var published *domain.SyncDoneEvent
		stream.On("PublishToStream", mock.Anything, domain.StreamSyncDone, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(2).(*domain.SyncDoneEvent) }).
			Return(nil)
		stream.On("AckMessage", mock.Anything, domain.StreamMetaChanged, group, "1-0").Return(nil)

		_, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		sync.AssertNumberOfCalls(t, "OnFieldChanged", 2)
		require.NotNil(t, published)
		assert.Equal(t, "failed", published.Status)
		assert.Equal(t, "db down", published.Error)
	})

	t.Run("consume error", func(t *testing.T) {
		stream := &MockStreamRepository{}
		w := newWorker(stream, &MockSynchronizer{}, 1)
		stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("redis down"))

		_, err := w.ProcessBatch(ctx)
		assert.Error(t, err)
	})
}

func TestSyncWorker_StartStop(t *testing.T) {
	stream := &MockStreamRepository{}
	w := newWorker(stream, &MockSynchronizer{}, 1)

	stream.On("CreateConsumerGroup", mock.Anything, mock.Anything, group).Return(nil)
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	stream.AssertNumberOfCalls(t, "CreateConsumerGroup", 2)
	assert.True(t, w.IsStopped())
}

func TestSyncWorker_StartFailsWithoutGroup(t *testing.T) {
	stream := &MockStreamRepository{}
	w := newWorker(stream, &MockSynchronizer{}, 1)
	stream.On("CreateConsumerGroup", mock.Anything, mock.Anything, group).Return(errors.New("redis down"))

	assert.Error(t, w.Start(context.Background()))
}

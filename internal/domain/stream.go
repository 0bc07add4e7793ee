package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamMetaChanged = "stream:content:meta"
	StreamItemSaved   = "stream:content:saved"
	StreamSyncDone    = "stream:content:synced"
)

// MetaChangedEvent - поле метаданных элемента изменено (добавлено/обновлено/удалено)
type MetaChangedEvent struct {
	ItemID int64  `json:"item_id"`
	Field  string `json:"field"`
}

// ItemSavedEvent - элемент контента сохранен
type ItemSavedEvent struct {
	ItemID   int64 `json:"item_id"`
	Revision bool  `json:"revision,omitempty"`
}

// SyncDoneEvent - результат синхронизации, публикуется после обработки события
type SyncDoneEvent struct {
	EventID uuid.UUID `json:"event_id"`
	ItemID  int64     `json:"item_id"`
	Field   string    `json:"field,omitempty"`
	Status  string    `json:"status"`
	Errors  []string  `json:"errors,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// NewSyncDoneEvent строит событие по результату синхронизации
func NewSyncDoneEvent(itemID int64, field string, outcome SyncOutcome, err error) *SyncDoneEvent {
	ev := &SyncDoneEvent{
		EventID: uuid.New(),
		ItemID:  itemID,
		Field:   field,
		Status:  outcome.Status.String(),
		Errors:  outcome.Errors,
	}
	if err != nil {
		ev.Status = "failed"
		ev.Error = err.Error()
	}
	return ev
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID     string
	Stream string
	Data   string
}

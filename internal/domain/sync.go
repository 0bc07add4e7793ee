package domain

import (
	"encoding/json"
	"fmt"
)

// SyncStatus - результат прохода синхронизации поля с картой
type SyncStatus int

const (
	// SyncNoOp - карта уже существует, обновление запрещено
	SyncNoOp SyncStatus = iota
	SyncSuccess
	// SyncSuccessWithErrors - карта сохранена, но часть значений не геокодирована
	SyncSuccessWithErrors
)

func (s SyncStatus) String() string {
	switch s {
	case SyncNoOp:
		return "noop"
	case SyncSuccess:
		return "success"
	case SyncSuccessWithErrors:
		return "success_with_errors"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

func (s SyncStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type SyncOutcome struct {
	Status SyncStatus `json:"status"`
	Errors []string   `json:"errors,omitempty"`
}

func NoOpOutcome() SyncOutcome {
	return SyncOutcome{Status: SyncNoOp}
}

// NewSyncOutcome - Success без ошибок, иначе SuccessWithErrors
func NewSyncOutcome(errs []string) SyncOutcome {
	if len(errs) == 0 {
		return SyncOutcome{Status: SyncSuccess}
	}
	return SyncOutcome{Status: SyncSuccessWithErrors, Errors: errs}
}

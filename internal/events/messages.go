package events

import (
	"encoding/json"
	"time"

	"hisaab/internal/core"
)

const (
	ActionAppended = "appended"
	ActionDeleted  = "deleted"
)

// TransactionEvent describes one ledger change. It carries the full field
// tuple, not just the ID: record IDs are only stable per backing store, so
// a mirror on a different store needs the content to act on.
type TransactionEvent struct {
	Action      string    `json:"action"`
	Owner       string    `json:"owner"`
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"` // ISO YYYY-MM-DD
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewTransactionEvent(action, owner string, t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Action:      action,
		Owner:       owner,
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Date:        t.Date.String(),
		Description: t.Description,
		Timestamp:   time.Now(),
	}
}

// Transaction reconstructs the ledger entry the event describes.
func (e *TransactionEvent) Transaction() (core.Transaction, error) {
	kind, err := core.ParseKind(e.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(e.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          e.ID,
		Kind:        kind,
		Category:    e.Category,
		Amount:      core.Money{Cents: e.AmountCents},
		Date:        date,
		Description: e.Description,
	}, nil
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

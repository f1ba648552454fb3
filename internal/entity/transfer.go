package entity

import "time"

type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferComplete TransferStatus = "complete"
)

// Transfer is a coin transfer between users. Balances move only at
// completion; progress ticks are cosmetic until then.
type Transfer struct {
	ID        string         `json:"id"`
	FromID    string         `json:"from_id"`
	ToID      string         `json:"to_id"`
	Amount    int            `json:"amount"`
	Progress  int            `json:"progress"`
	Status    TransferStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

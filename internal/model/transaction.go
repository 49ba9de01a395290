package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Draft is a transaction waiting for the user's confirmation. Once
// confirmed it is forwarded to the backend for persistence.
type Draft struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Kind      TransactionKind `json:"type"`
	AccountID string          `json:"account_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// GenerateID assigns a fresh UUID if the draft does not have one yet.
func (d *Draft) GenerateID() {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
}

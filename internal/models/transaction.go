package models

import "time"

// Transaction types
const (
	TxTypeDeposit    = "deposit"
	TxTypeEarn       = "earn"
	TxTypeCommission = "commission"
	TxTypeBonus      = "bonus"
	TxTypeTeamReward = "teamReward"
	TxTypeClaim      = "claim"
)

// Transaction statuses
const (
	TxStatusCompleted = "completed"
	TxStatusPending   = "pending"
)

// Transaction is the append-only ledger and the system of record for
// idempotency: the composite unique index on (user_id, uniq_key) is the
// final safety net against double-crediting. Claim settlement is the only
// path that mutates existing rows (the claim flags).
type Transaction struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;index;uniqueIndex:idx_tx_user_uniq" json:"user_id"`
	Type      string     `gorm:"size:32;not null;index" json:"type"`
	Amount    float64    `gorm:"type:decimal(15,4);not null" json:"amount"`
	Status    string     `gorm:"size:20;not null;default:'completed'" json:"status"`
	Claimable bool       `gorm:"not null;default:false;index" json:"claimable"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	ClaimRef  string     `gorm:"size:64" json:"claim_ref,omitempty"`
	UniqKey   string     `gorm:"size:191;not null;uniqueIndex:idx_tx_user_uniq" json:"uniq_key"`
	Meta      string     `gorm:"type:text" json:"meta"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}

package models

import "time"

// Balance holds one wallet per user. All money fields move through additive
// increments only, never wholesale overwrites, so concurrent settlement
// legs stay safe.
type Balance struct {
	ID                   uint               `gorm:"primarykey" json:"id"`
	UserID               uint               `gorm:"not null;uniqueIndex" json:"user_id"`
	Current              float64            `gorm:"type:decimal(15,4);not null;default:0" json:"current"`
	TotalBalance         float64            `gorm:"type:decimal(15,4);not null;default:0" json:"total_balance"`
	TotalEarning         float64            `gorm:"type:decimal(15,4);not null;default:0" json:"total_earning"`
	TeamRewardsAvailable float64            `gorm:"type:decimal(15,2);not null;default:0" json:"team_rewards_available"`
	TeamRewardsClaimed   float64            `gorm:"type:decimal(15,2);not null;default:0" json:"team_rewards_claimed"`
	Lots                 []LockedCapitalLot `gorm:"foreignKey:UserID;references:UserID" json:"lots,omitempty"`
	CreatedAt            time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Balance) TableName() string {
	return "balances"
}

// LockedCapitalLot is a time-boxed slice of capital excluded from
// withdrawable funds until maturity. Amount is immutable after creation;
// lots are historical records and are never removed.
type LockedCapitalLot struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Amount     float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	LockStart  time.Time  `gorm:"not null" json:"lock_start"`
	LockEnd    time.Time  `gorm:"not null;index" json:"lock_end"`
	Released   bool       `gorm:"not null;default:false" json:"released"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (LockedCapitalLot) TableName() string {
	return "locked_capital_lots"
}

package models

import "time"

// User represents a platform member. ReferredBy points at the direct
// sponsor; users are never deleted, only deactivated.
type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"size:100" json:"name"`
	Email          string    `gorm:"size:191;uniqueIndex" json:"email"`
	ReferralCode   string    `gorm:"size:32;index" json:"referral_code"`
	ReferredBy     *uint     `gorm:"index" json:"referred_by"`
	DepositTotal   float64   `gorm:"type:decimal(15,2);not null;default:0" json:"deposit_total"`
	RoiEarnedTotal float64   `gorm:"type:decimal(15,4);not null;default:0" json:"roi_earned_total"`
	IsActive       bool      `gorm:"not null;default:false" json:"is_active"`
	MiningRatePct  *float64  `gorm:"type:decimal(5,2)" json:"mining_rate_pct"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

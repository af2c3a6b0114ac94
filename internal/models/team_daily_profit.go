package models

import "time"

// TeamDailyProfit records one member's mining profit for one UTC day. It is
// the only interface between mining accrual and the team earnings
// distributor. Day keys the row by UTC calendar day; ProfitDate carries the
// UTC day start so the distributor can select by business-day window.
type TeamDailyProfit struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	MemberID     uint      `gorm:"not null;uniqueIndex:idx_tdp_member_day" json:"member_id"`
	Day          string    `gorm:"size:10;not null;uniqueIndex:idx_tdp_member_day" json:"day"`
	ProfitAmount float64   `gorm:"type:decimal(15,4);not null" json:"profit_amount"`
	ActiveOnDate bool      `gorm:"not null;default:false" json:"active_on_date"`
	ProfitDate   time.Time `gorm:"not null;index" json:"profit_date"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TeamDailyProfit) TableName() string {
	return "team_daily_profits"
}

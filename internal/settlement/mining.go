package settlement

import (
	"errors"
	"fmt"
	"time"

	"cryptomine/internal/models"
	"cryptomine/pkg/utils"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MiningRunResult summarizes one daily mining accrual run.
type MiningRunResult struct {
	Day         string  `json:"day"`
	Created     int     `json:"created"`
	Skipped     int     `json:"skipped"`
	Failed      int     `json:"failed"`
	TotalAmount float64 `json:"total_amount"`
}

// RunDailyMiningProfit accrues one profit per user for the UTC day before
// ref. Each member settles in its own transaction so one failure never
// aborts the batch; already-posted days are skipped, which makes a
// partially completed run resumable.
func (e *Engine) RunDailyMiningProfit(ref time.Time) (*MiningRunResult, error) {
	day, dayStart := miningDay(ref)
	result := &MiningRunResult{Day: day}

	var balances []models.Balance
	if err := e.db.Where("current > 0").Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	if len(balances) == 0 {
		return result, nil
	}

	userIDs := make([]uint, 0, len(balances))
	for _, b := range balances {
		userIDs = append(userIDs, b.UserID)
	}
	var users []models.User
	if err := e.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	userByID := make(map[uint]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	for _, balance := range balances {
		user := userByID[balance.UserID]
		if user == nil {
			result.Skipped++
			continue
		}

		profit := e.dailyProfitFor(user, balance.Current)
		if profit <= 0 {
			result.Skipped++
			continue
		}

		credited, err := e.settleMemberProfit(user, profit, day, dayStart)
		if err != nil {
			logger.Errorf("mining accrual failed for user %d on %s: %v", user.ID, day, err)
			result.Failed++
			continue
		}
		if !credited {
			result.Skipped++
			continue
		}
		result.Created++
		result.TotalAmount = utils.Round4(result.TotalAmount + profit)
	}

	logger.Infof("mining accrual %s: created=%d skipped=%d failed=%d total=%.4f",
		day, result.Created, result.Skipped, result.Failed, result.TotalAmount)
	return result, nil
}

// dailyProfitFor computes the member's profit for one day, honoring the
// per-user rate override and clipping to the remaining ROI-cap headroom.
func (e *Engine) dailyProfitFor(user *models.User, principal float64) float64 {
	rate := e.cfg.DefaultMiningRatePct
	if user.MiningRatePct != nil && *user.MiningRatePct > 0 {
		rate = *user.MiningRatePct
	}

	profit := utils.Pct(principal, rate, utils.PlatformScale)
	if profit <= 0 {
		return 0
	}

	headroom := utils.Round4(user.DepositTotal*e.cfg.RoiCapMultiplier - user.RoiEarnedTotal)
	if headroom <= 0 {
		return 0
	}
	if profit > headroom {
		profit = headroom
	}
	return profit
}

// settleMemberProfit applies one member's daily accrual as a single atomic
// unit: earn ledger entry, balance increments, lifetime ROI bump, and the
// TeamDailyProfit handoff row consumed by the team earnings distributor.
func (e *Engine) settleMemberProfit(user *models.User, profit float64, day string, dayStart time.Time) (bool, error) {
	rate := e.cfg.DefaultMiningRatePct
	if user.MiningRatePct != nil && *user.MiningRatePct > 0 {
		rate = *user.MiningRatePct
	}

	credited := false
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		credited, err = tryCreditTx(tx, user.ID,
			fmt.Sprintf("mining:%s:%d", day, user.ID),
			models.TxTypeEarn, profit, false, earningDelta(profit),
			creditMeta{"source": "daily_mining", "day": day, "rate_pct": rate})
		if err != nil {
			return err
		}
		if !credited {
			return nil
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("roi_earned_total", gorm.Expr("roi_earned_total + ?", profit)).Error; err != nil {
			return err
		}

		row := models.TeamDailyProfit{
			MemberID:     user.ID,
			Day:          day,
			ProfitAmount: profit,
			ActiveOnDate: user.IsActive,
			ProfitDate:   dayStart,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "day"}},
			DoNothing: true,
		}).Create(&row).Error
	})
	if err != nil {
		// Lost the unique-index race to a concurrent run: the day is
		// already settled for this member.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return credited, nil
}

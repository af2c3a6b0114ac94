package settlement

import (
	"encoding/json"
	"errors"
	"fmt"

	"cryptomine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// balanceDelta describes the additive increments a credit applies to the
// recipient's balance. Zero fields are left untouched.
type balanceDelta struct {
	Current              float64
	TotalBalance         float64
	TotalEarning         float64
	TeamRewardsAvailable float64
	TeamRewardsClaimed   float64
}

// earningDelta is the delta for credits that count as earnings
// (mining profit, bonuses, commissions).
func earningDelta(amount float64) balanceDelta {
	return balanceDelta{Current: amount, TotalBalance: amount, TotalEarning: amount}
}

type creditMeta map[string]interface{}

// tryCredit writes a ledger entry and the matching balance increment as one
// atomic unit, at most once per (recipient, uniqKey). Returns false when
// the key was already settled; that is the normal outcome on retries and is
// never an error.
func (e *Engine) tryCredit(recipientID uint, uniqKey, txType string, amount float64, claimable bool, delta balanceDelta, meta creditMeta) (bool, error) {
	var credited bool
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		credited, err = tryCreditTx(tx, recipientID, uniqKey, txType, amount, claimable, delta, meta)
		return err
	})
	if err != nil {
		// A concurrent writer won the race on the unique index; the
		// credit exists, so this invocation owes nothing.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("credit %s for user %d: %w", uniqKey, recipientID, err)
	}
	return credited, nil
}

// tryCreditTx is tryCredit inside a caller-owned transaction. Duplicate-key
// errors from the insert propagate so the caller can roll back everything
// it staged alongside the credit.
func tryCreditTx(tx *gorm.DB, recipientID uint, uniqKey, txType string, amount float64, claimable bool, delta balanceDelta, meta creditMeta) (bool, error) {
	if amount <= 0 {
		return false, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	// The existence check is the primary gate; the unique index on
	// (user_id, uniq_key) is the safety net under concurrency.
	var count int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND uniq_key = ?", recipientID, uniqKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, err
	}

	entry := models.Transaction{
		UserID:    recipientID,
		Type:      txType,
		Amount:    amount,
		Status:    models.TxStatusCompleted,
		Claimable: claimable,
		UniqKey:   uniqKey,
		Meta:      string(metaJSON),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return false, err
	}

	if err := incrementOrCreate(tx, recipientID, delta); err != nil {
		return false, err
	}
	return true, nil
}

// incrementOrCreate applies additive balance increments, creating the
// balance row with the increments as initial values when the user has
// never been credited before.
func incrementOrCreate(tx *gorm.DB, userID uint, delta balanceDelta) error {
	updates := map[string]interface{}{}
	if delta.Current != 0 {
		updates["current"] = gorm.Expr("current + ?", delta.Current)
	}
	if delta.TotalBalance != 0 {
		updates["total_balance"] = gorm.Expr("total_balance + ?", delta.TotalBalance)
	}
	if delta.TotalEarning != 0 {
		updates["total_earning"] = gorm.Expr("total_earning + ?", delta.TotalEarning)
	}
	if delta.TeamRewardsAvailable != 0 {
		updates["team_rewards_available"] = gorm.Expr("team_rewards_available + ?", delta.TeamRewardsAvailable)
	}
	if delta.TeamRewardsClaimed != 0 {
		updates["team_rewards_claimed"] = gorm.Expr("team_rewards_claimed + ?", delta.TeamRewardsClaimed)
	}
	if len(updates) == 0 {
		return nil
	}

	res := tx.Model(&models.Balance{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	balance := models.Balance{
		UserID:               userID,
		Current:              delta.Current,
		TotalBalance:         delta.TotalBalance,
		TotalEarning:         delta.TotalEarning,
		TeamRewardsAvailable: delta.TeamRewardsAvailable,
		TeamRewardsClaimed:   delta.TeamRewardsClaimed,
	}
	createRes := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&balance)
	if createRes.Error != nil {
		return createRes.Error
	}
	if createRes.RowsAffected > 0 {
		return nil
	}

	// A concurrent writer created the row between the update and the
	// insert; the increments still need to land.
	res = tx.Model(&models.Balance{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("balance for user %d not reachable for increment", userID)
	}
	return nil
}

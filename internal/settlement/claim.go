package settlement

import (
	"fmt"
	"time"

	"cryptomine/internal/models"
	"cryptomine/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimItem is one team-reward entry swept by a claim.
type ClaimItem struct {
	TransactionID uint    `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

// ClaimResult reports one claim settlement. Claimed is zero when nothing
// was claimable; that is a benign state, not an error.
type ClaimResult struct {
	Claimed      float64     `json:"claimed"`
	ClaimedTotal float64     `json:"claimed_total"`
	ClaimRef     string      `json:"claim_ref,omitempty"`
	Items        []ClaimItem `json:"items"`
}

// ClaimTeamEarnings moves every claimable team-reward credit of the user
// into spendable balance in one atomic step. Source entries are flagged
// claimed with a back-reference to the new claim ledger entry; no
// zero-amount entry is ever written.
func (e *Engine) ClaimTeamEarnings(userID uint) (*ClaimResult, error) {
	if userID == 0 {
		return nil, &ValidationError{Field: "user_id", Reason: "must be positive"}
	}

	result := &ClaimResult{Items: []ClaimItem{}}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var entries []models.Transaction
		if err := tx.Where("user_id = ? AND type = ? AND claimable = ? AND claimed_at IS NULL",
			userID, models.TxTypeTeamReward, true).
			Order("id").Find(&entries).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			var balances []models.Balance
			if err := tx.Where("user_id = ?", userID).Limit(1).Find(&balances).Error; err != nil {
				return err
			}
			if len(balances) > 0 {
				result.ClaimedTotal = balances[0].TeamRewardsClaimed
			}
			return nil
		}

		total := 0.0
		ids := make([]uint, 0, len(entries))
		for _, entry := range entries {
			total += entry.Amount
			ids = append(ids, entry.ID)
			result.Items = append(result.Items, ClaimItem{TransactionID: entry.ID, Amount: entry.Amount})
		}
		total = utils.Round2(total)

		claimRef := uuid.NewString()
		credited, err := tryCreditTx(tx, userID,
			fmt.Sprintf("claim:%s", claimRef),
			models.TxTypeClaim, total, false,
			balanceDelta{
				Current:              total,
				TotalBalance:         total,
				TotalEarning:         total,
				TeamRewardsAvailable: -total,
				TeamRewardsClaimed:   total,
			},
			creditMeta{"source": "team_rewards_claim", "entry_count": len(entries)})
		if err != nil {
			return err
		}
		if !credited {
			return fmt.Errorf("claim entry %s not created", claimRef)
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Transaction{}).
			Where("id IN ? AND claimed_at IS NULL", ids).
			Updates(map[string]interface{}{
				"claimable":  false,
				"claimed_at": now,
				"claim_ref":  claimRef,
			})
		if res.Error != nil {
			return res.Error
		}
		// A concurrent claim swept some of these entries first; roll
		// everything back rather than double-count.
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("claim conflict for user %d: expected %d entries, updated %d",
				userID, len(ids), res.RowsAffected)
		}

		result.Claimed = total
		result.ClaimRef = claimRef

		var balance models.Balance
		if err := tx.Where("user_id = ?", userID).First(&balance).Error; err != nil {
			return err
		}
		result.ClaimedTotal = balance.TeamRewardsClaimed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim team earnings for user %d: %w", userID, err)
	}
	return result, nil
}

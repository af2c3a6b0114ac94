package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cryptomine/internal/models"
	"cryptomine/internal/settlement"
	dbconfig "cryptomine/pkg/config"
	"cryptomine/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WalletResp is the wallet snapshot returned to the withdrawal/claim
// endpoints: full balance plus the lockup view used to gate withdrawals.
type WalletResp struct {
	UserID               uint                      `json:"user_id"`
	Current              float64                   `json:"current"`
	TotalBalance         float64                   `json:"total_balance"`
	TotalEarning         float64                   `json:"total_earning"`
	TeamRewardsAvailable float64                   `json:"team_rewards_available"`
	TeamRewardsClaimed   float64                   `json:"team_rewards_claimed"`
	Withdrawable         float64                   `json:"withdrawable"`
	MaturedLots          []models.LockedCapitalLot `json:"matured_lots"`
	PendingLots          []models.LockedCapitalLot `json:"pending_lots"`
}

// GetWallet returns the user's balance snapshot with withdrawable balance
// computed from unmatured locked-capital lots.
func GetWallet(c *gin.Context) {
	userID, ok := utils.NormalizeID(c.Param("user_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var balances []models.Balance
	if err := dbconfig.DB.Preload("Lots").Where("user_id = ?", userID).
		Limit(1).Find(&balances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	balance := models.Balance{UserID: userID}
	if len(balances) > 0 {
		balance = balances[0]
	}

	now := time.Now().UTC()
	matured, pending := settlement.PartitionLotsByMaturity(balance.Lots, now)

	c.JSON(http.StatusOK, WalletResp{
		UserID:               userID,
		Current:              balance.Current,
		TotalBalance:         balance.TotalBalance,
		TotalEarning:         balance.TotalEarning,
		TeamRewardsAvailable: balance.TeamRewardsAvailable,
		TeamRewardsClaimed:   balance.TeamRewardsClaimed,
		Withdrawable:         settlement.WithdrawableBalance(&balance, now),
		MaturedLots:          matured,
		PendingLots:          pending,
	})
}

// ClaimTeamEarnings sweeps the user's claimable team rewards into spendable
// balance. A zero claim is a normal "nothing to claim" response.
func ClaimTeamEarnings(c *gin.Context) {
	userID, ok := utils.NormalizeID(c.Param("user_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	result, err := engine().ClaimTeamEarnings(userID)
	if err != nil {
		if settlement.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTransactions returns the user's ledger entries, newest first.
// Query parameters: page (default: 1), page_size (default: 20, max: 100),
// type (optional filter).
func ListTransactions(c *gin.Context) {
	userID, ok := utils.NormalizeID(c.Param("user_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := 20
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	query := dbconfig.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var transactions []models.Transaction
	if err := query.Order("id desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      transactions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

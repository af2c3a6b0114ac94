package settlement

import (
	"time"

	"cryptomine/internal/models"
	"cryptomine/pkg/config"
	"cryptomine/pkg/utils"
)

// LotMatured reports whether a lot no longer locks capital as of asOf:
// either it was explicitly released or its lock window has ended.
func LotMatured(lot models.LockedCapitalLot, asOf time.Time) bool {
	return lot.Released || !lot.LockEnd.After(asOf)
}

// PartitionLotsByMaturity splits lots into matured and pending as of asOf.
func PartitionLotsByMaturity(lots []models.LockedCapitalLot, asOf time.Time) (matured, pending []models.LockedCapitalLot) {
	for _, lot := range lots {
		if LotMatured(lot, asOf) {
			matured = append(matured, lot)
		} else {
			pending = append(pending, lot)
		}
	}
	return matured, pending
}

// WithdrawableBalance is the spendable balance minus all unmatured lot
// amounts, floored at zero.
func WithdrawableBalance(balance *models.Balance, asOf time.Time) float64 {
	locked := 0.0
	for _, lot := range balance.Lots {
		if !LotMatured(lot, asOf) {
			locked += lot.Amount
		}
	}
	withdrawable := utils.Round2(balance.Current - locked)
	if withdrawable < 0 {
		return 0
	}
	return withdrawable
}

// ResolveCapitalLockWindow derives the lock window for capital entering a
// lock at now.
func ResolveCapitalLockWindow(cfg config.Settings, now time.Time) (lockStart, lockEnd time.Time) {
	lockStart = now.UTC()
	lockEnd = lockStart.AddDate(0, 0, cfg.LockWindowDays)
	return lockStart, lockEnd
}

package settlement

import (
	"testing"
	"time"

	"cryptomine/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPartitionLotsByMaturity(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	past := models.LockedCapitalLot{ID: 1, Amount: 10, LockEnd: now.AddDate(0, 0, -1)}
	exact := models.LockedCapitalLot{ID: 2, Amount: 20, LockEnd: now}
	future := models.LockedCapitalLot{ID: 3, Amount: 30, LockEnd: now.AddDate(0, 0, 10)}
	released := models.LockedCapitalLot{ID: 4, Amount: 40, LockEnd: now.AddDate(0, 0, 10), Released: true}

	matured, pending := PartitionLotsByMaturity(
		[]models.LockedCapitalLot{past, exact, future, released}, now)

	assert.Len(t, matured, 3)
	assert.Len(t, pending, 1)
	assert.Equal(t, uint(3), pending[0].ID)
	// lockEnd == asOf counts as matured
	assert.Equal(t, uint(2), matured[1].ID)
	// released wins over a future lockEnd
	assert.Equal(t, uint(4), matured[2].ID)
}

func TestWithdrawableBalance(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	balance := &models.Balance{
		Current: 100,
		Lots: []models.LockedCapitalLot{
			{Amount: 30, LockEnd: now.AddDate(0, 0, 5)},
			{Amount: 20, LockEnd: now.AddDate(0, 0, -5)},
			{Amount: 25, LockEnd: now.AddDate(0, 0, 5), Released: true},
		},
	}

	// Only the unmatured 30 locks capital
	assert.Equal(t, 70.0, WithdrawableBalance(balance, now))
}

func TestWithdrawableBalanceFlooredAtZero(t *testing.T) {
	now := time.Now().UTC()
	balance := &models.Balance{
		Current: 10,
		Lots: []models.LockedCapitalLot{
			{Amount: 50, LockEnd: now.AddDate(0, 0, 5)},
		},
	}
	assert.Equal(t, 0.0, WithdrawableBalance(balance, now))
}

func TestResolveCapitalLockWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	start, end := ResolveCapitalLockWindow(testSettings(), now)

	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 30), end)
}

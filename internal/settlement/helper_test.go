package settlement

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"cryptomine/internal/models"
	"cryptomine/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testUserSeq uint64

func testSettings() config.Settings {
	return config.Settings{
		ActivationThreshold:    80,
		SelfBonusPct:           5,
		L1BonusPct:             10,
		L2BonusPct:             2,
		DefaultMiningRatePct:   1.5,
		RoiCapMultiplier:       3,
		TeamOverridePct:        10,
		LockWindowDays:         30,
		BusinessDayOffsetHours: 5,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.LockedCapitalLot{},
		&models.Transaction{},
		&models.TeamDailyProfit{},
	))

	return NewEngine(db, testSettings())
}

func createTestUser(t *testing.T, e *Engine, referredBy *uint) *models.User {
	t.Helper()

	seq := atomic.AddUint64(&testUserSeq, 1)
	user := &models.User{
		Name:       fmt.Sprintf("user-%d", seq),
		Email:      fmt.Sprintf("user-%d@test.local", seq),
		ReferredBy: referredBy,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func createTestBalance(t *testing.T, e *Engine, userID uint, current float64) *models.Balance {
	t.Helper()

	balance := &models.Balance{UserID: userID, Current: current, TotalBalance: current}
	require.NoError(t, e.db.Create(balance).Error)
	return balance
}

func loadBalance(t *testing.T, e *Engine, userID uint) *models.Balance {
	t.Helper()

	var balances []models.Balance
	require.NoError(t, e.db.Where("user_id = ?", userID).Limit(1).Find(&balances).Error)
	if len(balances) == 0 {
		return &models.Balance{UserID: userID}
	}
	return &balances[0]
}

func loadUser(t *testing.T, e *Engine, userID uint) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, e.db.First(&user, userID).Error)
	return &user
}

func countTransactions(t *testing.T, e *Engine, userID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).Count(&count).Error)
	return count
}

package settlement

import (
	"testing"
	"time"

	"cryptomine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var teamRef = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// seedProfit inserts a handoff row inside teamRef's previous business day.
func seedProfit(t *testing.T, e *Engine, memberID uint, amount float64, active bool) {
	t.Helper()
	row := models.TeamDailyProfit{
		MemberID:     memberID,
		Day:          "2026-03-09",
		ProfitAmount: amount,
		ActiveOnDate: active,
		ProfitDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.db.Create(&row).Error)
}

func TestTeamEarningsPaysBothLegs(t *testing.T) {
	e := newTestEngine(t)

	grand := createTestUser(t, e, nil)
	sponsor := createTestUser(t, e, &grand.ID)
	member := createTestUser(t, e, &sponsor.ID)
	seedProfit(t, e, member.ID, 40, true)

	result, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-09", result.Day)
	assert.Equal(t, 2, result.PostedCount)
	assert.Equal(t, 2, result.UniqueReceivers)
	assert.Equal(t, 0, result.MissingUpline)
	assert.Equal(t, 8.0, result.TotalReward) // 10% of 40 to each leg

	// Overrides land as claimable team rewards, not spendable balance
	sponsorBalance := loadBalance(t, e, sponsor.ID)
	assert.Equal(t, 0.0, sponsorBalance.Current)
	assert.Equal(t, 4.0, sponsorBalance.TeamRewardsAvailable)

	grandBalance := loadBalance(t, e, grand.ID)
	assert.Equal(t, 4.0, grandBalance.TeamRewardsAvailable)

	var entries []models.Transaction
	require.NoError(t, e.db.Where("user_id = ?", sponsor.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TxTypeTeamReward, entries[0].Type)
	assert.True(t, entries[0].Claimable)
}

func TestTeamEarningsAggregatesMemberRows(t *testing.T) {
	e := newTestEngine(t)

	sponsor := createTestUser(t, e, nil)
	member := createTestUser(t, e, &sponsor.ID)

	// Two rows for the same member in the window sum before the override
	// is applied
	seedProfit(t, e, member.ID, 10, false)
	row := models.TeamDailyProfit{
		MemberID:     member.ID,
		Day:          "2026-03-08",
		ProfitAmount: 15,
		ActiveOnDate: true,
		ProfitDate:   time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.db.Create(&row).Error)

	result, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PostedCount)
	assert.Equal(t, 2.5, result.TotalReward) // 10% of 25
	assert.Equal(t, 2.5, loadBalance(t, e, sponsor.ID).TeamRewardsAvailable)
}

func TestTeamEarningsMissingUplineCounted(t *testing.T) {
	e := newTestEngine(t)

	member := createTestUser(t, e, nil)
	seedProfit(t, e, member.ID, 50, true)

	result, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)

	assert.Equal(t, 0, result.PostedCount)
	assert.Equal(t, 2, result.MissingUpline)
	assert.Equal(t, 0, result.Failed)
}

func TestTeamEarningsSingleLevelUpline(t *testing.T) {
	e := newTestEngine(t)

	sponsor := createTestUser(t, e, nil)
	member := createTestUser(t, e, &sponsor.ID)
	seedProfit(t, e, member.ID, 20, true)

	result, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PostedCount)
	assert.Equal(t, 1, result.MissingUpline)
	assert.Equal(t, 2.0, loadBalance(t, e, sponsor.ID).TeamRewardsAvailable)
}

func TestTeamEarningsRerunPostsNothing(t *testing.T) {
	e := newTestEngine(t)

	sponsor := createTestUser(t, e, nil)
	member := createTestUser(t, e, &sponsor.ID)
	seedProfit(t, e, member.ID, 30, true)

	first, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PostedCount)

	second, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PostedCount)
	assert.Equal(t, 0.0, second.TotalReward)

	assert.Equal(t, 3.0, loadBalance(t, e, sponsor.ID).TeamRewardsAvailable)
}

func TestTeamEarningsIgnoresRowsOutsideWindow(t *testing.T) {
	e := newTestEngine(t)

	sponsor := createTestUser(t, e, nil)
	member := createTestUser(t, e, &sponsor.ID)

	row := models.TeamDailyProfit{
		MemberID:     member.ID,
		Day:          "2026-03-10",
		ProfitAmount: 60,
		ActiveOnDate: true,
		// Next UTC day start: outside the previous +05:00 business day
		ProfitDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.db.Create(&row).Error)

	result, err := e.RunDailyTeamEarnings(teamRef)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PostedCount)
}

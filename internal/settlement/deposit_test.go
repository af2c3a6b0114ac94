package settlement

import (
	"testing"

	"cryptomine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario: lifetime $0 depositor with a full L1→L2 sponsor chain deposits
// $50 (below the $80 activation threshold), then $30 (crossing it).
func TestDepositRewardScenario(t *testing.T) {
	e := newTestEngine(t)

	grand := createTestUser(t, e, nil)
	sponsor := createTestUser(t, e, &grand.ID)
	depositor := createTestUser(t, e, &sponsor.ID)

	// First deposit: below threshold, only the L1 commission fires
	outcome, err := e.ApproveDeposit(depositor.ID, 50, DepositEventRef{ID: "dep-1"})
	require.NoError(t, err)

	assert.True(t, outcome.PrincipalCredited)
	assert.False(t, outcome.DepositorActive)
	assert.Equal(t, 0.0, outcome.SelfBonus)
	assert.Equal(t, 5.0, outcome.L1Bonus) // 10% of 50
	assert.Equal(t, 0.0, outcome.L2Bonus)

	assert.Equal(t, 50.0, loadBalance(t, e, depositor.ID).Current)
	assert.Equal(t, 5.0, loadBalance(t, e, sponsor.ID).Current)
	assert.Equal(t, 0.0, loadBalance(t, e, grand.ID).Current)

	refreshed := loadUser(t, e, depositor.ID)
	assert.Equal(t, 50.0, refreshed.DepositTotal)
	assert.False(t, refreshed.IsActive)

	// Second deposit crosses the threshold: all three legs fire on the
	// $30 amount at active rates
	outcome, err = e.ApproveDeposit(depositor.ID, 30, DepositEventRef{ID: "dep-2"})
	require.NoError(t, err)

	assert.True(t, outcome.DepositorActive)
	assert.Equal(t, 1.5, outcome.SelfBonus) // 5% of 30
	assert.Equal(t, 3.0, outcome.L1Bonus)   // 10% of 30
	assert.Equal(t, 0.6, outcome.L2Bonus)   // 2% of 30

	refreshed = loadUser(t, e, depositor.ID)
	assert.Equal(t, 80.0, refreshed.DepositTotal)
	assert.True(t, refreshed.IsActive)

	// principal(50) + principal(30) + self bonus(1.5)
	assert.Equal(t, 81.5, loadBalance(t, e, depositor.ID).Current)
	// 5 + 3 commissions
	assert.Equal(t, 8.0, loadBalance(t, e, sponsor.ID).Current)
	assert.Equal(t, 0.6, loadBalance(t, e, grand.ID).Current)

	// The first deposit's entries are untouched: 2 principals + self for
	// the depositor, 2 commissions for L1, 1 for L2
	assert.EqualValues(t, 3, countTransactions(t, e, depositor.ID))
	assert.EqualValues(t, 2, countTransactions(t, e, sponsor.ID))
	assert.EqualValues(t, 1, countTransactions(t, e, grand.ID))
}

func TestDepositReinvocationIsNoOp(t *testing.T) {
	e := newTestEngine(t)

	sponsor := createTestUser(t, e, nil)
	depositor := createTestUser(t, e, &sponsor.ID)

	_, err := e.ApproveDeposit(depositor.ID, 100, DepositEventRef{ID: "dep-dup"})
	require.NoError(t, err)

	before := loadBalance(t, e, depositor.ID)
	sponsorBefore := loadBalance(t, e, sponsor.ID)
	userBefore := loadUser(t, e, depositor.ID)

	outcome, err := e.ApproveDeposit(depositor.ID, 100, DepositEventRef{ID: "dep-dup"})
	require.NoError(t, err)

	assert.False(t, outcome.PrincipalCredited)
	assert.Equal(t, 0.0, outcome.SelfBonus)
	assert.Equal(t, 0.0, outcome.L1Bonus)

	after := loadBalance(t, e, depositor.ID)
	assert.Equal(t, before.Current, after.Current)
	assert.Equal(t, before.TotalBalance, after.TotalBalance)
	assert.Equal(t, sponsorBefore.Current, loadBalance(t, e, sponsor.ID).Current)

	userAfter := loadUser(t, e, depositor.ID)
	assert.Equal(t, userBefore.DepositTotal, userAfter.DepositTotal)

	// No duplicate lot either
	var lotCount int64
	require.NoError(t, e.db.Model(&models.LockedCapitalLot{}).
		Where("user_id = ?", depositor.ID).Count(&lotCount).Error)
	assert.EqualValues(t, 1, lotCount)
}

func TestDepositReplayKeepsOriginalActivationSnapshot(t *testing.T) {
	e := newTestEngine(t)

	grand := createTestUser(t, e, nil)
	sponsor := createTestUser(t, e, &grand.ID)
	depositor := createTestUser(t, e, &sponsor.ID)

	// First deposit settles inactive, second one crosses the threshold
	_, err := e.ApproveDeposit(depositor.ID, 50, DepositEventRef{ID: "dep-r1"})
	require.NoError(t, err)
	_, err = e.ApproveDeposit(depositor.ID, 30, DepositEventRef{ID: "dep-r2"})
	require.NoError(t, err)

	before := loadBalance(t, e, depositor.ID)
	grandBefore := loadBalance(t, e, grand.ID)
	txBefore := countTransactions(t, e, depositor.ID)

	// Redelivering the first event must not retro-fire the self and L2
	// legs that were ineligible when it originally settled
	outcome, err := e.ApproveDeposit(depositor.ID, 50, DepositEventRef{ID: "dep-r1"})
	require.NoError(t, err)

	assert.False(t, outcome.PrincipalCredited)
	assert.False(t, outcome.DepositorActive)
	assert.Equal(t, 0.0, outcome.SelfBonus)
	assert.Equal(t, 0.0, outcome.L1Bonus)
	assert.Equal(t, 0.0, outcome.L2Bonus)

	assert.Equal(t, before.Current, loadBalance(t, e, depositor.ID).Current)
	assert.Equal(t, grandBefore.Current, loadBalance(t, e, grand.ID).Current)
	assert.Equal(t, txBefore, countTransactions(t, e, depositor.ID))
}

func TestDepositWithoutUpline(t *testing.T) {
	e := newTestEngine(t)
	depositor := createTestUser(t, e, nil)

	outcome, err := e.ApproveDeposit(depositor.ID, 100, DepositEventRef{ID: "dep-solo"})
	require.NoError(t, err)

	assert.True(t, outcome.DepositorActive)
	assert.Equal(t, 5.0, outcome.SelfBonus)
	assert.Equal(t, 0.0, outcome.L1Bonus)
	assert.Equal(t, 0.0, outcome.L2Bonus)
	assert.Nil(t, outcome.L1UserID)
	assert.Nil(t, outcome.L2UserID)

	// principal + self bonus only
	assert.EqualValues(t, 2, countTransactions(t, e, depositor.ID))
}

func TestDepositAttachesLockedLot(t *testing.T) {
	e := newTestEngine(t)
	depositor := createTestUser(t, e, nil)

	_, err := e.ApproveDeposit(depositor.ID, 60, DepositEventRef{ID: "dep-lot"})
	require.NoError(t, err)

	var lots []models.LockedCapitalLot
	require.NoError(t, e.db.Where("user_id = ?", depositor.ID).Find(&lots).Error)
	require.Len(t, lots, 1)

	assert.Equal(t, 60.0, lots[0].Amount)
	assert.False(t, lots[0].Released)
	assert.Equal(t, lots[0].LockStart.AddDate(0, 0, 30).Unix(), lots[0].LockEnd.Unix())
}

func TestDepositValidation(t *testing.T) {
	e := newTestEngine(t)
	depositor := createTestUser(t, e, nil)

	_, err := e.ApproveDeposit(depositor.ID, 0, DepositEventRef{ID: "dep-zero"})
	assert.True(t, IsValidation(err))

	_, err = e.ApproveDeposit(depositor.ID, 10, DepositEventRef{})
	assert.True(t, IsValidation(err))

	_, err = e.ApproveDeposit(999999, 10, DepositEventRef{ID: "dep-ghost"})
	assert.True(t, IsValidation(err))
}

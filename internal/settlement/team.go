package settlement

import (
	"fmt"
	"time"

	"cryptomine/internal/models"
	"cryptomine/pkg/utils"

	logger "github.com/sirupsen/logrus"
)

// TeamRunResult summarizes one team earnings distribution run.
type TeamRunResult struct {
	Day             string  `json:"day"`
	PostedCount     int     `json:"posted_count"`
	UniqueReceivers int     `json:"unique_receivers"`
	MissingUpline   int     `json:"missing_upline"`
	Failed          int     `json:"failed"`
	TotalReward     float64 `json:"total_reward"`
}

type memberProfit struct {
	profit float64
	active bool
}

// RunDailyTeamEarnings pays the team A (level-1) and team B (level-2)
// override on each member's aggregated daily profit for the previous
// business day. Credits land as claimable team rewards, not spendable
// balance; members pass through claim settlement before the funds move.
// Re-running an already-processed day posts nothing.
func (e *Engine) RunDailyTeamEarnings(ref time.Time) (*TeamRunResult, error) {
	day, windowStart, windowEnd := businessDayWindow(ref, e.cfg.BusinessDayOffsetHours)
	result := &TeamRunResult{Day: day}

	var rows []models.TeamDailyProfit
	if err := e.db.Where("profit_date >= ? AND profit_date < ?", windowStart, windowEnd).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load team daily profits: %w", err)
	}

	profits := make(map[uint]*memberProfit)
	for _, row := range rows {
		agg, ok := profits[row.MemberID]
		if !ok {
			agg = &memberProfit{}
			profits[row.MemberID] = agg
		}
		agg.profit += row.ProfitAmount
		agg.active = agg.active || row.ActiveOnDate
	}

	cache := newUplineCache()
	receivers := make(map[uint]bool)

	for memberID, agg := range profits {
		if agg.profit <= 0 {
			continue
		}
		reward := utils.Pct(agg.profit, e.cfg.TeamOverridePct, utils.LedgerScale)
		if reward <= 0 {
			continue
		}

		l1, l2, err := e.resolveUpline(cache, memberID)
		if err != nil {
			logger.Errorf("team earnings: upline lookup failed for member %d: %v", memberID, err)
			result.Failed++
			continue
		}

		// Each leg is attempted independently; a missing sponsor on one
		// level never blocks the other.
		for _, leg := range []struct {
			team    string
			sponsor *models.User
		}{
			{team: "A", sponsor: l1},
			{team: "B", sponsor: l2},
		} {
			if leg.sponsor == nil {
				result.MissingUpline++
				continue
			}

			key := fmt.Sprintf("team:%s:%d:%d:%s", day, memberID, leg.sponsor.ID, leg.team)
			credited, err := e.tryCredit(leg.sponsor.ID, key,
				models.TxTypeTeamReward, reward, true,
				balanceDelta{TeamRewardsAvailable: reward},
				creditMeta{"source": "team_daily_earnings", "team": leg.team,
					"member_id": memberID, "day": day, "base_amount": agg.profit,
					"pct": e.cfg.TeamOverridePct, "member_active": agg.active})
			if err != nil {
				logger.Errorf("team earnings: credit failed for sponsor %d (member %d, team %s): %v",
					leg.sponsor.ID, memberID, leg.team, err)
				result.Failed++
				continue
			}
			if credited {
				result.PostedCount++
				result.TotalReward = utils.Round2(result.TotalReward + reward)
				receivers[leg.sponsor.ID] = true
			}
		}
	}

	result.UniqueReceivers = len(receivers)
	logger.Infof("team earnings %s: posted=%d receivers=%d missing_upline=%d failed=%d total=%.2f",
		day, result.PostedCount, result.UniqueReceivers, result.MissingUpline, result.Failed, result.TotalReward)
	return result, nil
}
